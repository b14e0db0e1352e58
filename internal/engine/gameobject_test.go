package engine

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntity(t *testing.T) {
	e := NewEntity("TestObject")

	assert.Equal(t, "TestObject", e.Name)
	assert.Equal(t, "Default", e.Tag)
	assert.Equal(t, DefaultLayer, e.Layer)
	assert.True(t, e.ActiveSelf())
	assert.NotEqual(t, uuid.Nil, e.ID())
	require.NotNil(t, e.Transform())
	assert.Equal(t, []Component{e.Transform()}, e.Components())
	assert.Equal(t, e, e.Transform().Entity())

	assert.Equal(t, "Entity", NewEntity("").Name)
}

func TestEntityUniqueIDs(t *testing.T) {
	seen := map[EntityID]bool{}
	for i := 0; i < 100; i++ {
		e := NewEntity("e")
		assert.False(t, seen[e.ID()])
		seen[e.ID()] = true
	}
}

func TestAddComponentIsIdempotent(t *testing.T) {
	e := NewEntity("e")
	first := newTracker()

	got, err := e.AddComponent(first, false)
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = e.AddComponent(newTracker(), false)
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Len(t, e.Components(), 2)
	assert.Equal(t, []string{"awake", "enable"}, first.calls)
}

func TestAddComponentOverrideReplaces(t *testing.T) {
	e := NewEntity("e")
	first := newTracker()
	_, err := e.AddComponent(first, false)
	require.NoError(t, err)
	_, err = e.AddComponent(newMarker("m"), false)
	require.NoError(t, err)

	second := newTracker()
	got, err := e.AddComponent(second, true)
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"awake", "enable", "disable", "destroy"}, first.calls)
	assert.Nil(t, first.Entity())
	assert.Same(t, second, GetComponent[*tracker](e))

	// replaced in place
	comps := e.Components()
	require.Len(t, comps, 3)
	assert.Same(t, second, comps[1])
}

func TestAddComponentErrors(t *testing.T) {
	a, b := NewEntity("a"), NewEntity("b")
	p := newTracker()
	_, err := a.AddComponent(p, false)
	require.NoError(t, err)

	_, err = b.AddComponent(p, false)
	assert.ErrorIs(t, err, ErrAttached)

	got, err := a.AddComponent(p, true)
	require.NoError(t, err)
	assert.Same(t, p, got)

	a.Destroy()
	_, err = a.AddComponent(newMarker(""), false)
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestAddTransformCopiesLocals(t *testing.T) {
	e := NewEntity("e")
	tr := NewTransform()
	tr.SetAngle(45)

	got, err := e.AddComponent(tr, false)
	require.NoError(t, err)
	assert.Same(t, e.Transform(), got)
	assert.Equal(t, float32(0), e.Transform().Angle())

	_, err = e.AddComponent(tr, true)
	require.NoError(t, err)
	assert.Equal(t, float32(45), e.Transform().Angle())
	assert.Len(t, e.Components(), 1)
}

func TestRemoveComponent(t *testing.T) {
	e := NewEntity("e")
	p := newTracker()
	_, _ = e.AddComponent(p, false)
	_, _ = e.AddComponent(newMarker(""), false)

	assert.True(t, e.RemoveComponent("tracker"))
	assert.Equal(t, "destroy", p.calls[len(p.calls)-1])
	assert.False(t, e.RemoveComponent("tracker"))

	assert.True(t, e.RemoveComponent(reflect.TypeOf(&marker{})))
	assert.False(t, e.RemoveComponent(newMarker("")))
	assert.False(t, e.RemoveComponent("Transform"))
	assert.False(t, e.RemoveComponent(e.Transform()))
	assert.Len(t, e.Components(), 1)
}

func TestComponentByName(t *testing.T) {
	e := NewEntity("e")
	m := newMarker("x")
	_, _ = e.AddComponent(m, false)

	assert.Equal(t, Component(m), e.ComponentByName("MARKER"))
	assert.Equal(t, Component(e.Transform()), e.ComponentByName("transform"))
	assert.Nil(t, e.ComponentByName("Tracker"))
}

func TestDestroyIsIdempotentAndOrdered(t *testing.T) {
	root := NewEntity("root")
	child := NewEntity("child")
	require.NoError(t, child.SetParent(root, false))
	rp, cp := newTracker(), newTracker()
	_, _ = root.AddComponent(rp, false)
	_, _ = child.AddComponent(cp, false)

	var order []string
	root.Changed().Subscribe(func() { order = append(order, "root") })
	child.Changed().Subscribe(func() { order = append(order, "child") })

	root.Destroy()
	root.Destroy()

	assert.True(t, root.Destroyed())
	assert.True(t, child.Destroyed())
	assert.Equal(t, []string{"child", "root"}, order)
	assert.Equal(t, 1, rp.count("destroy"))
	assert.Equal(t, 1, cp.count("destroy"))
	assert.Nil(t, child.Parent())
	assert.Empty(t, root.Children())
	assert.True(t, root.Transform().Destroyed())
}

func TestActiveRawAndEffective(t *testing.T) {
	root, mid, leaf := chain(t)
	p := newTracker()
	_, _ = leaf.AddComponent(p, false)

	root.SetActive(false)
	assert.True(t, mid.ActiveSelf())
	assert.False(t, mid.ActiveInHierarchy())
	assert.False(t, leaf.ActiveInHierarchy())
	assert.Equal(t, 1, p.count("disable"))

	// re-enabling below an inactive ancestor stays inactive
	leaf.SetActive(false)
	leaf.SetActive(true)
	assert.False(t, leaf.ActiveInHierarchy())
	assert.Equal(t, 1, p.count("disable"))
	assert.Equal(t, 1, p.count("enable"))

	mid.SetActive(false)
	root.SetActive(true)
	assert.False(t, leaf.ActiveInHierarchy())
	assert.Equal(t, 1, p.count("enable"))

	mid.SetActive(true)
	assert.True(t, leaf.ActiveInHierarchy())
	assert.Equal(t, 2, p.count("enable"))
}

func TestReparentUnderInactiveDisables(t *testing.T) {
	off, e := NewEntity("off"), NewEntity("e")
	off.SetActive(false)
	p := newTracker()
	_, _ = e.AddComponent(p, false)

	require.NoError(t, e.SetParent(off, false))
	assert.Equal(t, 1, p.count("disable"))
	require.NoError(t, e.SetParent(nil, false))
	assert.Equal(t, 2, p.count("enable"))
}

func TestSetEnabledHooks(t *testing.T) {
	e := NewEntity("e")
	p := newTracker()
	_, _ = e.AddComponent(p, false)

	require.NoError(t, Set(p, "enabled", false))
	assert.Equal(t, 1, p.count("disable"))
	p.SetEnabled(false)
	assert.Equal(t, 1, p.count("disable"))

	e.SetActive(false)
	p.SetEnabled(true)
	assert.Equal(t, 1, p.count("enable"), "entity inactive, component stays dormant")
	e.SetActive(true)
	assert.Equal(t, 2, p.count("enable"))
}

func TestFrameHookOrder(t *testing.T) {
	e := NewEntity("e")
	p := newTracker()
	_, _ = e.AddComponent(p, false)

	e.Start()
	e.Update(0.1)
	e.FixedUpdate(0.1)
	e.LateUpdate(0.1)
	e.Start()

	assert.Equal(t, []string{"awake", "enable", "start", "update", "fixed", "late"}, p.calls)

	p.SetEnabled(false)
	e.Update(0.1)
	assert.Equal(t, 1, p.count("update"))
}

func TestUpdateStartsLateComponents(t *testing.T) {
	e := NewEntity("e")
	p := newTracker()
	_, _ = e.AddComponent(p, false)
	e.Update(0.1)
	assert.Equal(t, []string{"awake", "enable", "start", "update"}, p.calls)
}

func TestIsAncestorOf(t *testing.T) {
	root, mid, leaf := chain(t)
	assert.True(t, root.IsAncestorOf(leaf))
	assert.True(t, mid.IsAncestorOf(leaf))
	assert.False(t, leaf.IsAncestorOf(root))
	assert.False(t, leaf.IsAncestorOf(leaf))
}
