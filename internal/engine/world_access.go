package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// WorldAccess provides components with access to world-level operations
// without creating circular import dependencies.
type WorldAccess interface {
	Time() *Time
	Gravity() rl.Vector2
	// Spawn adds e to the active scene under parent (nil for a root).
	Spawn(e *Entity, parent *Entity) error
	// Destroy queues e for removal at the end of the frame.
	Destroy(e *Entity)
}

// SetWorld attaches the world that drives s. Pass nil to detach.
func (s *Scene) SetWorld(w WorldAccess) {
	s.world = w
}

// World returns the world driving s, or nil.
func (s *Scene) World() WorldAccess {
	return s.world
}

// WorldOf returns the world driving e's scene, or nil when e is detached or
// its scene is not running.
func WorldOf(e *Entity) WorldAccess {
	if e == nil {
		return nil
	}
	if s := e.Scene(); s != nil {
		return s.world
	}
	return nil
}
