package components

import (
	"scene2d/internal/engine"
	"scene2d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultGravity is used when the entity's scene is not driven by a world.
var DefaultGravity = rl.Vector2{X: 0, Y: 9.81}

// RigidBody owns a physics body. The body is seeded from the transform on
// Start and written back to it after every fixed step.
type RigidBody struct {
	engine.BaseComponent
	Mass            float32
	Moment          float32
	BodyType        physics.Kind
	GravityScale    float32
	Velocity        rl.Vector2
	AngularVelocity float32 // degrees per second

	body *physics.Body
}

var RigidBodySchema = engine.NewSchema("RigidBody", engine.ComponentSchema).With(
	engine.Prop("mass", float32(1), func(r *RigidBody) *float32 { return &r.Mass }),
	engine.Prop("moment", float32(1), func(r *RigidBody) *float32 { return &r.Moment }),
	engine.Prop("body_type", physics.Dynamic, func(r *RigidBody) *physics.Kind { return &r.BodyType }),
	engine.Prop("gravity_scale", float32(1), func(r *RigidBody) *float32 { return &r.GravityScale }),
	engine.Prop("velocity", rl.Vector2{}, func(r *RigidBody) *rl.Vector2 { return &r.Velocity }),
	engine.Prop("angular_velocity", float32(0), func(r *RigidBody) *float32 { return &r.AngularVelocity }),
)

func NewRigidBody() *RigidBody {
	r := &RigidBody{}
	engine.MustConstruct(r, nil)
	return r
}

func (r *RigidBody) Schema() *engine.Schema { return RigidBodySchema }

// Body returns the simulated body, or nil before Awake.
func (r *RigidBody) Body() *physics.Body {
	return r.body
}

func (r *RigidBody) Awake() {
	r.body = physics.NewBody()
}

func (r *RigidBody) Start() {
	r.sync()
	if t := r.transform(); t != nil {
		r.body.Position = t.WorldPosition()
		r.body.Angle = t.WorldAngle()
	}
}

// sync copies the declared fields into the body.
func (r *RigidBody) sync() {
	r.body.Kind = r.BodyType
	r.body.Mass = r.Mass
	r.body.Moment = r.Moment
	r.body.Velocity = r.Velocity
	r.body.AngularVelocity = r.AngularVelocity
}

func (r *RigidBody) FixedUpdate(dt float32) {
	t := r.transform()
	if t == nil || r.body == nil {
		return
	}
	r.sync()

	gravity := DefaultGravity
	if w := engine.WorldOf(r.Entity()); w != nil {
		gravity = w.Gravity()
	}
	r.body.Integrate(dt, rl.Vector2Scale(gravity, r.GravityScale))

	r.Velocity = r.body.Velocity
	r.AngularVelocity = r.body.AngularVelocity
	if r.body.Kind == physics.Static {
		return
	}
	t.SetWorldPosition(r.body.Position)
	angle := r.body.Angle
	if p := t.Parent(); p != nil {
		angle -= p.WorldAngle()
	}
	t.SetAngle(angle)
}

// ApplyForce pushes the body until the next fixed step.
func (r *RigidBody) ApplyForce(f rl.Vector2) {
	if r.body != nil {
		r.body.ApplyForce(f)
	}
}

// ApplyImpulse changes the velocity immediately.
func (r *RigidBody) ApplyImpulse(j rl.Vector2) {
	if r.body == nil {
		return
	}
	r.body.Kind = r.BodyType
	r.body.Mass = r.Mass
	r.body.Velocity = r.Velocity
	r.body.ApplyImpulse(j)
	r.Velocity = r.body.Velocity
}

func (r *RigidBody) transform() *engine.Transform {
	if e := r.Entity(); e != nil {
		return e.Transform()
	}
	return nil
}
