package engine

import (
	"fmt"
	"reflect"
)

// Scene owns a forest of entities and indexes every one of them by id.
// Removal is two-phase: QueueRemove marks, FlushRemovals destroys, so code
// walking the hierarchy mid-frame never sees it change underneath.
type Scene struct {
	Observable
	Name string

	arena   *arena
	pending []EntityID
	queued  map[EntityID]struct{}

	EntityAdded   Event[*Entity]
	EntityRemoved Event[*Entity]

	world WorldAccess
}

func NewScene(name string) *Scene {
	s := &Scene{
		Name:   name,
		arena:  newArena(),
		queued: make(map[EntityID]struct{}),
	}
	s.arena.scene = s
	return s
}

func (s *Scene) indexed(e *Entity) {
	s.EntityAdded.Invoke(e)
}

func (s *Scene) unindexed(e *Entity) {
	if _, ok := s.queued[e.id]; ok {
		delete(s.queued, e.id)
		for i, id := range s.pending {
			if id == e.id {
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				break
			}
		}
	}
	s.EntityRemoved.Invoke(e)
}

// AddEntity indexes e and its descendants. With a nil parent e becomes a
// root, keeping its world placement; otherwise it is reparented under
// parent, which must already belong to s.
func (s *Scene) AddEntity(e *Entity, parent *Entity) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if parent != nil {
		if parent.arena != s.arena {
			return fmt.Errorf("add %q under %q: %w", e.Name, parent.Name, ErrNotInScene)
		}
		if err := e.SetParent(parent, true); err != nil {
			return err
		}
		s.Changed().Notify()
		return nil
	}
	if e.arena == s.arena {
		if err := e.SetParent(nil, true); err != nil {
			return err
		}
		s.Changed().Notify()
		return nil
	}
	if err := e.SetParent(nil, true); err != nil {
		return err
	}
	s.arena.adopt(e)
	s.arena.addRoot(e.id)
	s.Changed().Notify()
	return nil
}

// QueueRemove marks e for destruction at the next FlushRemovals. It reports
// false if e does not belong to s.
func (s *Scene) QueueRemove(e *Entity) bool {
	if e == nil || e.destroyed || e.arena != s.arena {
		return false
	}
	if _, ok := s.queued[e.id]; ok {
		return true
	}
	s.queued[e.id] = struct{}{}
	s.pending = append(s.pending, e.id)
	return true
}

// FlushRemovals destroys every queued entity and returns how many were
// destroyed. Descendants of a queued entity go with it.
func (s *Scene) FlushRemovals() int {
	n := 0
	for len(s.pending) > 0 {
		id := s.pending[0]
		s.pending = s.pending[1:]
		delete(s.queued, id)
		e := s.arena.get(id)
		if e == nil {
			continue
		}
		n += len(e.subtree())
		e.Destroy()
	}
	return n
}

// Pending returns the number of entities queued for removal.
func (s *Scene) Pending() int {
	return len(s.pending)
}

// FindByID resolves an id. It returns nil for ids that are stale or never
// belonged to s.
func (s *Scene) FindByID(id EntityID) *Entity {
	return s.arena.get(id)
}

// Contains reports whether e is indexed by s.
func (s *Scene) Contains(e *Entity) bool {
	return e != nil && s.arena.get(e.id) == e
}

// FindByName returns the first entity named name, in hierarchy order.
func (s *Scene) FindByName(name string) *Entity {
	var found *Entity
	s.Walk(func(e *Entity) bool {
		if e.Name == name {
			found = e
			return false
		}
		return true
	})
	return found
}

// FindByTag returns every entity carrying tag, in hierarchy order.
func (s *Scene) FindByTag(tag string) []*Entity {
	var result []*Entity
	s.Walk(func(e *Entity) bool {
		if e.HasTag(tag) {
			result = append(result, e)
		}
		return true
	})
	return result
}

// Roots returns the root entities in order.
func (s *Scene) Roots() []*Entity {
	return s.arena.rootEntities()
}

// Len returns the number of indexed entities.
func (s *Scene) Len() int {
	return len(s.arena.entities)
}

// Walk visits every entity depth first, pre-order. Returning false from fn
// stops the walk.
func (s *Scene) Walk(fn func(*Entity) bool) {
	for _, r := range s.Roots() {
		if !walk(r, fn) {
			return
		}
	}
}

func walk(e *Entity, fn func(*Entity) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children() {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Entities returns every entity in hierarchy order.
func (s *Scene) Entities() []*Entity {
	out := make([]*Entity, 0, s.Len())
	s.Walk(func(e *Entity) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Duplicate deep copies e and its descendants as a new sibling of e with
// fresh ids. References between copied entities are redirected to the
// copies; references leaving the subtree are kept.
func (s *Scene) Duplicate(e *Entity) (*Entity, error) {
	if !s.Contains(e) {
		return nil, ErrNotInScene
	}
	ids := make(map[EntityID]EntityID)
	var copies []*Entity
	dup, err := duplicate(e, ids, &copies)
	if err != nil {
		return nil, err
	}
	for _, c := range copies {
		for _, comp := range c.components {
			RemapRefs(comp, ids)
		}
	}
	if parent := e.Parent(); parent != nil {
		err = dup.SetParent(parent, false)
	} else {
		err = s.AddEntity(dup, nil)
	}
	if err != nil {
		dup.Destroy()
		return nil, err
	}
	s.Changed().Notify()
	return dup, nil
}

func duplicate(src *Entity, ids map[EntityID]EntityID, copies *[]*Entity) (*Entity, error) {
	dst := NewEntity(src.Name)
	if err := Clone(dst, src); err != nil {
		return nil, err
	}
	ids[src.id] = dst.id
	*copies = append(*copies, dst)
	dst.transform.copyLocal(src.transform)
	for _, c := range src.components[1:] {
		cp := reflect.New(reflect.TypeOf(c).Elem()).Interface().(Component)
		if err := Construct(cp, nil); err != nil {
			return nil, err
		}
		if err := Clone(cp, c); err != nil {
			return nil, err
		}
		if _, err := dst.AddComponent(cp, true); err != nil {
			return nil, err
		}
	}
	for _, child := range src.Children() {
		cc, err := duplicate(child, ids, copies)
		if err != nil {
			return nil, err
		}
		if err := cc.SetParent(dst, false); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Start runs Start on every active entity's components.
func (s *Scene) Start() {
	for _, e := range s.Entities() {
		e.Start()
	}
}

func (s *Scene) Update(dt float32) {
	for _, e := range s.Entities() {
		e.Update(dt)
	}
}

func (s *Scene) FixedUpdate(dt float32) {
	for _, e := range s.Entities() {
		e.FixedUpdate(dt)
	}
}

func (s *Scene) LateUpdate(dt float32) {
	for _, e := range s.Entities() {
		e.LateUpdate(dt)
	}
}
