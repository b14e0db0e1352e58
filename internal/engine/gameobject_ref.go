package engine

import "github.com/google/uuid"

// EntityRef is a serializable reference to an entity by id. It never keeps
// the target alive: a destroyed target simply stops resolving.
//
// Example:
//
//	type Follower struct {
//	    engine.BaseComponent
//	    Target engine.EntityRef
//	}
//
//	func (f *Follower) Update(dt float32) {
//	    if target := f.Target.Resolve(f.Entity()); target != nil {
//	        // Use the target...
//	    }
//	}
type EntityRef struct {
	ID EntityID
}

// RefTo returns a reference to e, or an empty reference for nil.
func RefTo(e *Entity) EntityRef {
	var r EntityRef
	r.Set(e)
	return r
}

// Get resolves the reference in scene. Returns nil if the reference is empty
// or stale.
func (r EntityRef) Get(scene *Scene) *Entity {
	if r.ID == uuid.Nil || scene == nil {
		return nil
	}
	return scene.FindByID(r.ID)
}

// Resolve resolves the reference among the entities sharing from's scene or
// detached tree.
func (r EntityRef) Resolve(from *Entity) *Entity {
	if r.ID == uuid.Nil || from == nil || from.arena == nil {
		return nil
	}
	return from.arena.get(r.ID)
}

// IsValid reports whether the reference is set. It does not check that the
// target still exists.
func (r EntityRef) IsValid() bool {
	return r.ID != uuid.Nil
}

// Set points the reference at e. Pass nil to clear it.
func (r *EntityRef) Set(e *Entity) {
	if e == nil {
		r.ID = uuid.Nil
	} else {
		r.ID = e.id
	}
}

// Clear empties the reference.
func (r *EntityRef) Clear() {
	r.ID = uuid.Nil
}

func (r EntityRef) MarshalText() ([]byte, error) {
	if r.ID == uuid.Nil {
		return []byte{}, nil
	}
	return []byte(r.ID.String()), nil
}

func (r *EntityRef) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		r.ID = uuid.Nil
		return nil
	}
	id, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}
