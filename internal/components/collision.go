package components

import (
	"bytes"
	"sort"

	"scene2d/internal/engine"
	"scene2d/internal/physics"
)

// CollisionPair identifies two touching entities, smaller id first.
type CollisionPair struct {
	A, B engine.EntityID
}

func makePair(a, b engine.EntityID) CollisionPair {
	if bytes.Compare(a[:], b[:]) > 0 {
		return CollisionPair{A: b, B: a}
	}
	return CollisionPair{A: a, B: b}
}

// Contacts finds overlapping colliders after every fixed step and sends
// OnCollisionEnter/Exit to the engine.CollisionHandler components of both
// entities.
type Contacts struct {
	activeCollisions map[CollisionPair]bool // collisions from last step
}

func NewContacts() *Contacts {
	return &Contacts{activeCollisions: make(map[CollisionPair]bool)}
}

type collider struct {
	entity *engine.Entity
	shape  physics.Shape
	bounds physics.AABB
}

// Active returns the number of touching pairs seen by the last Step.
func (c *Contacts) Active() int {
	return len(c.activeCollisions)
}

// Touching reports whether a and b overlapped in the last Step.
func (c *Contacts) Touching(a, b *engine.Entity) bool {
	return c.activeCollisions[makePair(a.ID(), b.ID())]
}

// Reset forgets every contact without sending exits.
func (c *Contacts) Reset() {
	c.activeCollisions = make(map[CollisionPair]bool)
}

// Step tests every pair of live colliders in scene.
func (c *Contacts) Step(scene *engine.Scene) {
	colliders := gather(scene)
	// sweep along X so only boxes that overlap on that axis are compared
	sort.Slice(colliders, func(i, j int) bool {
		return colliders[i].bounds.Min.X < colliders[j].bounds.Min.X
	})

	currentCollisions := make(map[CollisionPair]bool)
	for i := range colliders {
		a := colliders[i]
		for j := i + 1; j < len(colliders); j++ {
			b := colliders[j]
			if b.bounds.Min.X > a.bounds.Max.X {
				break
			}
			if a.entity == b.entity {
				continue
			}
			if physics.Overlaps(a.shape, b.shape) {
				currentCollisions[makePair(a.entity.ID(), b.entity.ID())] = true
			}
		}
	}

	// handlers may destroy entities, so both ends are looked up again before
	// every call and pairs whose entity was destroyed end silently
	for pair := range currentCollisions {
		if c.activeCollisions[pair] {
			continue
		}
		a, b := scene.FindByID(pair.A), scene.FindByID(pair.B)
		if live(a) && live(b) {
			notifyCollisionEnter(a, b)
		}
		if live(a) && live(b) {
			notifyCollisionEnter(b, a)
		}
	}
	for pair := range c.activeCollisions {
		if currentCollisions[pair] {
			continue
		}
		a, b := scene.FindByID(pair.A), scene.FindByID(pair.B)
		if live(a) && live(b) {
			notifyCollisionExit(a, b)
		}
		if live(a) && live(b) {
			notifyCollisionExit(b, a)
		}
	}
	for pair := range currentCollisions {
		if !live(scene.FindByID(pair.A)) || !live(scene.FindByID(pair.B)) {
			delete(currentCollisions, pair)
		}
	}
	c.activeCollisions = currentCollisions
}

func live(e *engine.Entity) bool {
	return e != nil && !e.Destroyed()
}

func gather(scene *engine.Scene) []collider {
	var out []collider
	for _, e := range scene.Entities() {
		if !e.ActiveInHierarchy() {
			continue
		}
		for _, comp := range e.Components() {
			sp, ok := comp.(ShapeProvider)
			if !ok || !comp.Base().Enabled() {
				continue
			}
			shape := sp.Shape()
			out = append(out, collider{entity: e, shape: shape, bounds: shape.Bounds()})
		}
	}
	return out
}

func notifyCollisionEnter(obj, other *engine.Entity) {
	for _, comp := range obj.Components() {
		if handler, ok := comp.(engine.CollisionHandler); ok {
			handler.OnCollisionEnter(other)
		}
	}
}

func notifyCollisionExit(obj, other *engine.Entity) {
	for _, comp := range obj.Components() {
		if handler, ok := comp.(engine.CollisionHandler); ok {
			handler.OnCollisionExit(other)
		}
	}
}
