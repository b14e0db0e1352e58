package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScene(t *testing.T) {
	scene := NewScene("TestScene")

	assert.Equal(t, "TestScene", scene.Name)
	assert.Equal(t, 0, scene.Len())
	assert.Empty(t, scene.Roots())
}

func TestAddEntityIndexesDescendants(t *testing.T) {
	scene := NewScene("Test")
	root, mid, leaf := chain(t)

	var added []string
	scene.EntityAdded.AddListener(func(e *Entity) { added = append(added, e.Name) })

	require.NoError(t, scene.AddEntity(root, nil))
	assert.Equal(t, 3, scene.Len())
	assert.Equal(t, []*Entity{root}, scene.Roots())
	assert.ElementsMatch(t, []string{"root", "mid", "leaf"}, added)
	for _, e := range []*Entity{root, mid, leaf} {
		assert.Same(t, e, scene.FindByID(e.ID()))
		assert.Same(t, scene, e.Scene())
	}

	// adding again as root is a no-op
	require.NoError(t, scene.AddEntity(root, nil))
	assert.Len(t, scene.Roots(), 1)
}

func TestAddEntityUnderParent(t *testing.T) {
	scene := NewScene("Test")
	parent := NewEntity("parent")
	parent.Transform().SetPosition(rl.Vector2{X: 5, Y: 0})
	require.NoError(t, scene.AddEntity(parent, nil))

	child := NewEntity("child")
	child.Transform().SetPosition(rl.Vector2{X: 1, Y: 1})
	require.NoError(t, scene.AddEntity(child, parent))
	assert.Equal(t, parent, child.Parent())
	assert.Equal(t, 2, scene.Len())
	assert.Len(t, scene.Roots(), 1)
	assertVec(t, rl.Vector2{X: 1, Y: 1}, child.Transform().WorldPosition())

	// moving a child to the root keeps it indexed
	require.NoError(t, scene.AddEntity(child, nil))
	assert.Nil(t, child.Parent())
	assert.Len(t, scene.Roots(), 2)
	assert.Equal(t, 2, scene.Len())
}

func TestAddEntityParentFromOtherScene(t *testing.T) {
	a, b := NewScene("a"), NewScene("b")
	parent := NewEntity("parent")
	require.NoError(t, a.AddEntity(parent, nil))

	e := NewEntity("e")
	err := b.AddEntity(e, parent)
	assert.ErrorIs(t, err, ErrNotInScene)
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, e.Parent())
}

func TestQueueRemoveIsDeferred(t *testing.T) {
	scene := NewScene("Test")
	root, mid, leaf := chain(t)
	require.NoError(t, scene.AddEntity(root, nil))
	other := NewEntity("other")
	require.NoError(t, scene.AddEntity(other, nil))

	assert.True(t, scene.QueueRemove(mid))
	assert.True(t, scene.QueueRemove(leaf))
	assert.False(t, scene.QueueRemove(NewEntity("stranger")))

	// nothing changes until the flush point
	assert.Equal(t, 4, scene.Len())
	assert.Same(t, mid, scene.FindByID(mid.ID()))
	assert.Equal(t, 2, scene.Pending())

	assert.Equal(t, 2, scene.FlushRemovals())
	assert.Equal(t, 0, scene.Pending())
	assert.Equal(t, 2, scene.Len())
	assert.Nil(t, scene.FindByID(mid.ID()))
	assert.Nil(t, scene.FindByID(leaf.ID()))
	assert.Empty(t, root.Children())
}

func TestCascadingDestroyLeavesNoDanglingLinks(t *testing.T) {
	scene := NewScene("Test")
	root := NewEntity("root")
	require.NoError(t, scene.AddEntity(root, nil))
	doomed := NewEntity("doomed")
	require.NoError(t, scene.AddEntity(doomed, root))
	var ids []EntityID
	ids = append(ids, doomed.ID())
	parent := doomed
	for i := 0; i < 4; i++ {
		c := NewEntity("c")
		require.NoError(t, scene.AddEntity(c, parent))
		ids = append(ids, c.ID())
		parent = c
	}
	sibling := NewEntity("sibling")
	require.NoError(t, scene.AddEntity(sibling, root))

	var removed int
	scene.EntityRemoved.AddListener(func(*Entity) { removed++ })
	doomed.Destroy()

	assert.Equal(t, 5, removed)
	for _, id := range ids {
		assert.Nil(t, scene.FindByID(id))
	}
	assert.Equal(t, 2, scene.Len())
	assert.Equal(t, []*Entity{sibling}, root.Children())
	scene.Walk(func(e *Entity) bool {
		for _, c := range e.Children() {
			assert.Same(t, e, c.Parent())
			assert.Same(t, c, scene.FindByID(c.ID()))
		}
		return true
	})
}

func TestFindByNameAndTag(t *testing.T) {
	scene := NewScene("Test")
	a := NewEntity("Player")
	a.Tag = "hero"
	b := NewEntity("Enemy")
	b.Tag = "enemy"
	c := NewEntity("Enemy2")
	c.Tag = "enemy"
	require.NoError(t, scene.AddEntity(a, nil))
	require.NoError(t, scene.AddEntity(b, nil))
	require.NoError(t, scene.AddEntity(c, b))

	assert.Same(t, a, scene.FindByName("Player"))
	assert.Nil(t, scene.FindByName("Nobody"))
	assert.Equal(t, []*Entity{b, c}, scene.FindByTag("enemy"))
	assert.Empty(t, scene.FindByTag("boss"))
}

func TestWalkStops(t *testing.T) {
	scene := NewScene("Test")
	root, _, _ := chain(t)
	require.NoError(t, scene.AddEntity(root, nil))

	visited := 0
	scene.Walk(func(e *Entity) bool {
		visited++
		return e.Name != "mid"
	})
	assert.Equal(t, 2, visited)
	assert.Len(t, scene.Entities(), 3)
}

func TestDuplicate(t *testing.T) {
	scene := NewScene("Test")
	root := NewEntity("root")
	require.NoError(t, scene.AddEntity(root, nil))
	src := NewEntity("src")
	src.Transform().SetPosition(rl.Vector2{X: 3, Y: 4})
	require.NoError(t, scene.AddEntity(src, root))
	kid := NewEntity("kid")
	require.NoError(t, scene.AddEntity(kid, src))

	outside := NewEntity("outside")
	require.NoError(t, scene.AddEntity(outside, nil))

	p := newTracker()
	p.Target = RefTo(kid)
	p.X = 8
	_, _ = src.AddComponent(p, false)
	q := newTracker()
	q.Target = RefTo(outside)
	_, _ = kid.AddComponent(q, false)

	dup, err := scene.Duplicate(src)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID(), dup.ID())
	assert.Equal(t, "src", dup.Name)
	assert.Same(t, root, dup.Parent())
	assertVec(t, rl.Vector2{X: 3, Y: 4}, dup.Transform().Position())
	assert.Equal(t, 6, scene.Len())

	dp := GetComponent[*tracker](dup)
	require.NotNil(t, dp)
	assert.NotSame(t, p, dp)
	assert.Equal(t, float32(8), dp.X)

	require.Len(t, dup.Children(), 1)
	dupKid := dup.Children()[0]
	assert.Equal(t, dupKid.ID(), dp.Target.ID, "inner reference follows the copy")
	assert.Equal(t, outside.ID(), GetComponent[*tracker](dupKid).Target.ID, "outer reference is kept")

	_, err = scene.Duplicate(NewEntity("stranger"))
	assert.ErrorIs(t, err, ErrNotInScene)
}

func TestSceneUpdateSkipsInactive(t *testing.T) {
	scene := NewScene("Test")
	on, off := NewEntity("on"), NewEntity("off")
	require.NoError(t, scene.AddEntity(on, nil))
	require.NoError(t, scene.AddEntity(off, nil))
	pOn, pOff := newTracker(), newTracker()
	_, _ = on.AddComponent(pOn, false)
	_, _ = off.AddComponent(pOff, false)
	off.SetActive(false)

	scene.Start()
	scene.Update(0.1)
	scene.FixedUpdate(0.1)
	scene.LateUpdate(0.1)

	assert.Equal(t, 1, pOn.count("update"))
	assert.Equal(t, 1, pOn.count("fixed"))
	assert.Equal(t, 1, pOn.count("late"))
	assert.Equal(t, 0, pOff.count("start"))
	assert.Equal(t, 0, pOff.count("update"))
}
