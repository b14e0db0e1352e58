package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRefGet(t *testing.T) {
	scene := NewScene("Test")
	obj := NewEntity("Target")
	require.NoError(t, scene.AddEntity(obj, nil))

	ref := RefTo(obj)
	assert.True(t, ref.IsValid())
	assert.Same(t, obj, ref.Get(scene))
	assert.Same(t, obj, ref.Resolve(obj))
}

func TestEntityRefGetNil(t *testing.T) {
	scene := NewScene("Test")

	assert.Nil(t, EntityRef{}.Get(scene))
	assert.Nil(t, EntityRef{ID: uuid.New()}.Get(scene))
	assert.Nil(t, EntityRef{ID: uuid.New()}.Get(nil))
}

func TestEntityRefStaleAfterDestroy(t *testing.T) {
	scene := NewScene("Test")
	obj := NewEntity("Target")
	require.NoError(t, scene.AddEntity(obj, nil))
	ref := RefTo(obj)

	obj.Destroy()
	assert.Nil(t, ref.Get(scene))
	assert.True(t, ref.IsValid())
}

func TestEntityRefResolve(t *testing.T) {
	a, b := NewEntity("a"), NewEntity("b")
	require.NoError(t, b.SetParent(a, false))

	ref := RefTo(b)
	assert.Same(t, b, ref.Resolve(a))
	assert.Nil(t, ref.Resolve(NewEntity("elsewhere")))
	assert.Nil(t, ref.Resolve(nil))
}

func TestEntityRefSetClear(t *testing.T) {
	obj := NewEntity("Test")
	var ref EntityRef

	ref.Set(obj)
	assert.Equal(t, obj.ID(), ref.ID)
	ref.Set(nil)
	assert.False(t, ref.IsValid())

	ref.Set(obj)
	ref.Clear()
	assert.Equal(t, uuid.Nil, ref.ID)
}

func TestEntityRefText(t *testing.T) {
	id := uuid.New()
	b, err := EntityRef{ID: id}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, id.String(), string(b))

	b, err = EntityRef{}.MarshalText()
	require.NoError(t, err)
	assert.Empty(t, b)

	var ref EntityRef
	require.NoError(t, ref.UnmarshalText([]byte(id.String())))
	assert.Equal(t, id, ref.ID)
	require.NoError(t, ref.UnmarshalText(nil))
	assert.False(t, ref.IsValid())
	assert.Error(t, ref.UnmarshalText([]byte("not-a-uuid")))
}
