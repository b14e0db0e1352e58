package components

import (
	"testing"

	"scene2d/internal/engine"
	"scene2d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRigidBodyDefaults(t *testing.T) {
	rb := NewRigidBody()
	assert.Equal(t, float32(1), rb.Mass)
	assert.Equal(t, physics.Dynamic, rb.BodyType)
	assert.Nil(t, rb.Body(), "no body before Awake")

	doc, err := engine.ToDocument(rb)
	require.NoError(t, err)
	assert.Equal(t, []string{"enabled", "removable", "mass", "moment", "body_type",
		"gravity_scale", "velocity", "angular_velocity"}, doc.Keys())
	v, _ := doc.Get("body_type")
	assert.Equal(t, "Dynamic", v)
}

func TestRigidBodyBodyTypeFromDocument(t *testing.T) {
	rb := &RigidBody{}
	require.NoError(t, engine.FromDocument(rb, map[string]any{"body_type": "Static", "mass": 3}, nil))
	assert.Equal(t, physics.Static, rb.BodyType)
	assert.Equal(t, float32(3), rb.Mass)

	err := engine.FromDocument(rb, map[string]any{"body_type": "Floating"}, nil)
	assert.Error(t, err)
}

func TestRigidBodyFalls(t *testing.T) {
	rb := NewRigidBody()
	e := spawn(t, nil, "ball", rl.Vector2{X: 1, Y: 2}, rb)

	e.Start()
	e.FixedUpdate(0.5)

	assert.InDelta(t, 4.905, rb.Velocity.Y, 1e-4)
	pos := e.Transform().Position()
	assert.InDelta(t, 1, pos.X, 1e-5)
	assert.InDelta(t, 4.4525, pos.Y, 1e-4)
}

func TestRigidBodyGravityScale(t *testing.T) {
	rb := NewRigidBody()
	rb.GravityScale = 0
	e := spawn(t, nil, "floaty", rl.Vector2{}, rb)

	e.Start()
	e.FixedUpdate(1)
	assert.Equal(t, rl.Vector2{}, e.Transform().Position())
}

func TestRigidBodyStatic(t *testing.T) {
	rb := NewRigidBody()
	rb.BodyType = physics.Static
	e := spawn(t, nil, "wall", rl.Vector2{X: 3, Y: 3}, rb)

	e.Start()
	e.FixedUpdate(1)
	assert.Equal(t, rl.Vector2{X: 3, Y: 3}, e.Transform().Position())
}

func TestRigidBodyWritesLocalUnderParent(t *testing.T) {
	parent := spawn(t, nil, "parent", rl.Vector2{X: 10})
	rb := NewRigidBody()
	rb.BodyType = physics.Kinematic
	rb.Velocity = rl.Vector2{X: 1}
	child := spawn(t, nil, "child", rl.Vector2{X: 1}, rb)
	require.NoError(t, child.SetParent(parent, false))

	child.Start()
	assert.Equal(t, rl.Vector2{X: 11}, rb.Body().Position)
	child.FixedUpdate(1)

	assert.InDelta(t, 2, child.Transform().Position().X, 1e-5)
	assert.InDelta(t, 12, child.Transform().WorldPosition().X, 1e-5)
}

func TestRigidBodyImpulse(t *testing.T) {
	rb := NewRigidBody()
	rb.Mass = 2
	spawn(t, nil, "ball", rl.Vector2{}, rb)

	rb.ApplyImpulse(rl.Vector2{X: 4})
	assert.Equal(t, rl.Vector2{X: 2}, rb.Velocity)
}
