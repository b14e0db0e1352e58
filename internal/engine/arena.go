package engine

// arena owns a forest of entities keyed by id. A scene has one; an entity
// built outside any scene owns a private arena until it is parented into
// another one. Parent and child links are ids resolved here, so the tree
// holds no pointer cycles.
type arena struct {
	entities map[EntityID]*Entity
	roots    []EntityID
	scene    *Scene
}

func newArena() *arena {
	return &arena{entities: make(map[EntityID]*Entity)}
}

func (a *arena) get(id EntityID) *Entity {
	return a.entities[id]
}

func (a *arena) insert(e *Entity) {
	a.entities[e.id] = e
	e.arena = a
	if a.scene != nil {
		a.scene.indexed(e)
	}
}

func (a *arena) remove(e *Entity) {
	if a.entities[e.id] != e {
		return
	}
	delete(a.entities, e.id)
	a.removeRoot(e.id)
	if a.scene != nil {
		a.scene.unindexed(e)
	}
}

func (a *arena) addRoot(id EntityID) {
	for _, r := range a.roots {
		if r == id {
			return
		}
	}
	a.roots = append(a.roots, id)
}

func (a *arena) removeRoot(id EntityID) {
	for i, r := range a.roots {
		if r == id {
			a.roots = append(a.roots[:i], a.roots[i+1:]...)
			return
		}
	}
}

// adopt moves e and its descendants into a. The caller links e into the
// new hierarchy.
func (a *arena) adopt(e *Entity) {
	old := e.arena
	if old == a {
		return
	}
	subtree := e.subtree()
	old.removeRoot(e.id)
	for _, n := range subtree {
		old.remove(n)
	}
	for _, n := range subtree {
		a.insert(n)
	}
}

func (a *arena) rootEntities() []*Entity {
	out := make([]*Entity, 0, len(a.roots))
	for _, id := range a.roots {
		if e := a.entities[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}
