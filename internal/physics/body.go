package physics

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3 // units/sec - below this, a body might sleep
	SleepAngularThreshold  = 1.0 // deg/sec - below this, a body might sleep
	SleepTimeThreshold     = 0.3 // seconds of low velocity before sleeping
)

// Kind selects how a body responds to the simulation.
type Kind int

const (
	Dynamic   Kind = iota // moved by gravity and forces
	Kinematic             // moved only by its velocity
	Static                // never moves
)

var kindNames = [...]string{"Dynamic", "Kinematic", "Static"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid body kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if strings.EqualFold(name, string(b)) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown body kind %q", b)
}

// Body is the simulated state behind a rigid body component. Angles are in
// degrees.
type Body struct {
	Kind            Kind
	Position        rl.Vector2
	Angle           float32
	Velocity        rl.Vector2
	AngularVelocity float32
	Mass            float32
	Moment          float32
	CanSleep        bool

	Sleeping   bool
	sleepTimer float32
	force      rl.Vector2
	torque     float32
}

// NewBody returns a dynamic unit-mass body.
func NewBody() *Body {
	return &Body{Kind: Dynamic, Mass: 1, Moment: 1, CanSleep: true}
}

// ApplyForce accumulates f until the next Integrate.
func (b *Body) ApplyForce(f rl.Vector2) {
	b.force = rl.Vector2Add(b.force, f)
	b.Wake()
}

// ApplyTorque accumulates t until the next Integrate.
func (b *Body) ApplyTorque(t float32) {
	b.torque += t
	b.Wake()
}

// ApplyImpulse changes the velocity immediately.
func (b *Body) ApplyImpulse(j rl.Vector2) {
	if b.Kind != Dynamic || b.Mass <= 0 {
		return
	}
	b.Velocity = rl.Vector2Add(b.Velocity, rl.Vector2Scale(j, 1/b.Mass))
	b.Wake()
}

// Wake forces the body out of sleep state
func (b *Body) Wake() {
	b.Sleeping = false
	b.sleepTimer = 0
}

// Integrate advances the body by dt with semi-implicit Euler.
func (b *Body) Integrate(dt float32, gravity rl.Vector2) {
	defer b.clearForces()

	switch b.Kind {
	case Static:
		return
	case Dynamic:
		if b.Sleeping {
			return
		}
		accel := gravity
		if b.Mass > 0 {
			accel = rl.Vector2Add(accel, rl.Vector2Scale(b.force, 1/b.Mass))
		}
		b.Velocity = rl.Vector2Add(b.Velocity, rl.Vector2Scale(accel, dt))
		if b.Moment > 0 {
			b.AngularVelocity += b.torque / b.Moment * dt
		}
	}

	b.Position = rl.Vector2Add(b.Position, rl.Vector2Scale(b.Velocity, dt))
	b.Angle += b.AngularVelocity * dt

	if b.Kind == Dynamic && gravity == (rl.Vector2{}) {
		b.trySleep(dt)
	}
}

func (b *Body) clearForces() {
	b.force = rl.Vector2{}
	b.torque = 0
}

// trySleep puts a slow body to sleep once it stayed slow long enough. It is
// only used without gravity, since gravity keeps every free body moving.
func (b *Body) trySleep(dt float32) {
	if !b.CanSleep || b.Sleeping {
		return
	}
	speed := rl.Vector2Length(b.Velocity)
	if speed < SleepVelocityThreshold && absf(b.AngularVelocity) < SleepAngularThreshold {
		b.sleepTimer += dt
		if b.sleepTimer >= SleepTimeThreshold {
			b.Sleeping = true
			b.Velocity = rl.Vector2{}
			b.AngularVelocity = 0
		}
	} else {
		b.sleepTimer = 0
	}
}
