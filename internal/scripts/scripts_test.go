package scripts_test

import (
	"testing"

	"scene2d/internal/config"
	"scene2d/internal/engine"
	"scene2d/internal/scripts"
	"scene2d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld(t *testing.T) (*world.World, *engine.Scene) {
	t.Helper()
	w := world.New(config.Default(), nil)
	return w, w.NewScene("Test")
}

func spawn(t *testing.T, w *world.World, name string, pos rl.Vector2, comps ...string) *engine.Entity {
	t.Helper()
	e := engine.NewEntity(name)
	e.Transform().SetPosition(pos)
	for _, c := range comps {
		_, err := w.AddComponentByName(e, c)
		require.NoError(t, err)
	}
	require.NoError(t, w.Spawn(e, nil))
	return e
}

func TestRegister(t *testing.T) {
	reg := engine.NewComponentRegistry()
	scripts.Register(reg)

	assert.Equal(t, []string{"Collectible", "Follower", "Rotator", "Transform"}, reg.Names())

	c, err := reg.Create("Rotator")
	require.NoError(t, err)
	assert.Equal(t, float32(90), c.(*scripts.Rotator).Speed)

	c, err = reg.Create("Collectible")
	require.NoError(t, err)
	assert.Equal(t, 10, c.(*scripts.Collectible).Points)
	assert.Equal(t, "Player", c.(*scripts.Collectible).TargetTag)
}

func TestRotatorSpins(t *testing.T) {
	w, _ := newWorld(t)
	e := spawn(t, w, "spinner", rl.Vector2{}, "Rotator")

	w.Frame(0.5)
	assert.Equal(t, float32(0), e.Transform().Angle(), "nothing runs while editing")

	require.NoError(t, w.Play())
	w.Frame(0.5)
	assert.InDelta(t, 45, e.Transform().Angle(), 1e-4)
}

func TestCollectiblePickedUpByTaggedEntity(t *testing.T) {
	w, scene := newWorld(t)
	coin := spawn(t, w, "coin", rl.Vector2{}, "CircleCollider", "Collectible")
	spawn(t, w, "rock", rl.Vector2{X: 0.5}, "CircleCollider")

	var got []int
	engine.GetComponent[*scripts.Collectible](coin).Collected.AddListener(func(p int) { got = append(got, p) })

	require.NoError(t, w.Play())
	w.Frame(0.1)
	assert.Same(t, coin, scene.FindByID(coin.ID()), "untagged entities are ignored")

	player := spawn(t, w, "player", rl.Vector2{X: -0.5}, "CircleCollider")
	player.Tag = "Player"
	w.Frame(0.1)

	assert.Equal(t, []int{10}, got)
	assert.Nil(t, scene.FindByID(coin.ID()))
	assert.True(t, coin.Destroyed())
}

func TestCollectibleNeedsCollider(t *testing.T) {
	w, scene := newWorld(t)
	coin := spawn(t, w, "coin", rl.Vector2{}, "Collectible")
	player := spawn(t, w, "player", rl.Vector2{}, "BoxCollider")
	player.Tag = "Player"

	require.NoError(t, w.Play())
	w.Frame(0.1)
	assert.Same(t, coin, scene.FindByID(coin.ID()))
	assert.False(t, engine.GetComponent[*scripts.Collectible](coin).IsCollected())
}

func TestFollowerApproachesTarget(t *testing.T) {
	w, _ := newWorld(t)
	target := spawn(t, w, "target", rl.Vector2{X: 10})
	e := spawn(t, w, "follower", rl.Vector2{}, "Follower")
	f := engine.GetComponent[*scripts.Follower](e)
	f.Target = engine.RefTo(target)

	require.NoError(t, w.Play())
	w.Frame(0.5)
	assert.InDelta(t, 1, e.Transform().WorldPosition().X, 1e-4)

	// the last step lands exactly on the goal
	f.Speed = 100
	w.Frame(0.5)
	assert.InDelta(t, 10, e.Transform().WorldPosition().X, 1e-4)

	w.Destroy(target)
	w.Frame(0.5)
	assert.InDelta(t, 10, e.Transform().WorldPosition().X, 1e-4)
}

func TestFollowerTargetSurvivesReload(t *testing.T) {
	w, scene := newWorld(t)
	target := spawn(t, w, "target", rl.Vector2{X: 3})
	e := spawn(t, w, "follower", rl.Vector2{}, "Follower")
	engine.GetComponent[*scripts.Follower](e).Target = engine.RefTo(target)

	doc, err := w.Serializer.Save(scene)
	require.NoError(t, err)
	loaded, err := w.Serializer.Load(doc)
	require.NoError(t, err)

	newTarget := loaded.FindByName("target")
	follower := loaded.FindByName("follower")
	require.NotNil(t, newTarget)
	require.NotNil(t, follower)
	assert.NotEqual(t, target.ID(), newTarget.ID())
	assert.Equal(t, newTarget.ID(), engine.GetComponent[*scripts.Follower](follower).Target.ID)
}
