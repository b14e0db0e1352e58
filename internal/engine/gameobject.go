package engine

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// EntityID identifies an entity for the lifetime of a run. Ids are written
// to documents only so references can be remapped on load.
type EntityID = uuid.UUID

// Entity is a named node of the scene graph. It owns exactly one Transform
// and at most one component per concrete type.
type Entity struct {
	Observable
	Name  string
	Tag   string
	Layer string

	active bool
	id     EntityID

	transform  *Transform
	components []Component
	arena      *arena
	destroyed  bool
}

var EntitySchema = NewSchema("Entity").With(
	Prop("name", "Entity", func(e *Entity) *string { return &e.Name }),
	Prop("tag", "Default", func(e *Entity) *string { return &e.Tag }),
	Prop("active", true, func(e *Entity) *bool { return &e.active },
		WithSetter(func(obj any, v any) error {
			obj.(*Entity).SetActive(v.(bool))
			return nil
		})),
	Prop("layer", DefaultLayer, func(e *Entity) *string { return &e.Layer }),
	PropFunc("id", uuid.New, func(e *Entity) *EntityID { return &e.id }, UIHidden(), ReadOnly()),
)

// NewEntity creates a root entity with a fresh id and a Transform. It lives
// outside any scene until added to one.
func NewEntity(name string) *Entity {
	e := &Entity{}
	var values map[string]any
	if name != "" {
		values = map[string]any{"name": name}
	}
	MustConstruct(e, values)
	e.init(NewTransform())
	return e
}

// LoadEntity creates an entity from a decoded document. Overrides win over
// the document; the serializer passes a fresh "id" this way.
func LoadEntity(doc map[string]any, overrides map[string]any) (*Entity, error) {
	e := &Entity{}
	if err := FromDocument(e, doc, overrides); err != nil {
		return nil, err
	}
	e.init(NewTransform())
	return e, nil
}

func (e *Entity) init(t *Transform) {
	if e.id == uuid.Nil {
		e.id = uuid.New()
	}
	a := newArena()
	a.insert(e)
	a.addRoot(e.id)
	e.transform = t
	e.components = []Component{t}
	attachComponent(t, e)
}

func (e *Entity) Schema() *Schema { return EntitySchema }

func (e *Entity) ID() EntityID { return e.id }

func (e *Entity) Transform() *Transform { return e.transform }

func (e *Entity) HasTag(tag string) bool { return e.Tag == tag }

// Destroyed reports whether Destroy ran.
func (e *Entity) Destroyed() bool { return e.destroyed }

// Scene returns the scene the entity belongs to, or nil.
func (e *Entity) Scene() *Scene {
	if e.arena == nil {
		return nil
	}
	return e.arena.scene
}

// AddComponent attaches c and runs its Awake hook. If a component of the same
// concrete type is attached already, it is returned unchanged unless override
// is set, in which case it is destroyed and replaced in place. Adding a
// Transform with override copies its local fields into the entity's own.
func (e *Entity) AddComponent(c Component, override bool) (Component, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	if t, ok := c.(*Transform); ok {
		if override && t != e.transform {
			e.transform.copyLocal(t)
		}
		return e.transform, nil
	}
	if owner := c.Entity(); owner != nil {
		if owner == e {
			return c, nil
		}
		return nil, ErrAttached
	}
	if c.Base().destroyed {
		return nil, ErrDestroyed
	}

	i := e.indexOf(reflect.TypeOf(c))
	switch {
	case i >= 0 && !override:
		return e.components[i], nil
	case i >= 0:
		old := e.components[i]
		e.components[i] = c
		destroyComponent(old)
	default:
		e.components = append(e.components, c)
	}
	attachComponent(c, e)
	e.Changed().Notify()
	return c, nil
}

// RemoveComponent detaches and destroys a component given by concrete type
// (reflect.Type), by instance or by case-insensitive type name. It reports
// false when nothing matched or the component is not removable.
func (e *Entity) RemoveComponent(key any) bool {
	i := -1
	switch k := key.(type) {
	case string:
		for j, c := range e.components {
			if strings.EqualFold(c.Schema().Name(), k) || strings.EqualFold(reflect.TypeOf(c).Elem().Name(), k) {
				i = j
				break
			}
		}
	case reflect.Type:
		i = e.indexOf(k)
	case Component:
		for j, c := range e.components {
			if c == k {
				i = j
				break
			}
		}
	}
	if i < 0 {
		return false
	}
	c := e.components[i]
	if !c.Base().removable {
		return false
	}
	e.components = append(e.components[:i], e.components[i+1:]...)
	destroyComponent(c)
	e.Changed().Notify()
	return true
}

func (e *Entity) indexOf(t reflect.Type) int {
	for i, c := range e.components {
		if reflect.TypeOf(c) == t {
			return i
		}
	}
	return -1
}

// GetComponent returns the first component assignable to T.
func GetComponent[T any](e *Entity) T {
	var zero T
	for _, c := range e.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// ComponentByName returns the component whose type name matches name,
// ignoring case.
func (e *Entity) ComponentByName(name string) Component {
	for _, c := range e.components {
		if strings.EqualFold(c.Schema().Name(), name) {
			return c
		}
	}
	return nil
}

// Components returns the attached components, Transform first.
func (e *Entity) Components() []Component {
	out := make([]Component, len(e.components))
	copy(out, e.components)
	return out
}

// SetParent delegates to the transform. A nil parent makes e a root.
func (e *Entity) SetParent(parent *Entity, keepWorld bool) error {
	if parent == nil {
		return e.transform.SetParent(nil, keepWorld)
	}
	return e.transform.SetParent(parent.transform, keepWorld)
}

// Parent returns the owning entity of the transform's parent.
func (e *Entity) Parent() *Entity {
	if p := e.transform.Parent(); p != nil {
		return p.entity
	}
	return nil
}

// Children returns the child entities in order.
func (e *Entity) Children() []*Entity {
	if e.arena == nil {
		return nil
	}
	out := make([]*Entity, 0, len(e.transform.children))
	for _, id := range e.transform.children {
		if c := e.arena.get(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// subtree returns e and every descendant, depth first, pre-order.
func (e *Entity) subtree() []*Entity {
	var out []*Entity
	e.collect(&out)
	return out
}

func (e *Entity) collect(out *[]*Entity) {
	*out = append(*out, e)
	for _, c := range e.Children() {
		c.collect(out)
	}
}

// IsAncestorOf reports whether e is a strict ancestor of other.
func (e *Entity) IsAncestorOf(other *Entity) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == e {
			return true
		}
	}
	return false
}

// ActiveSelf returns the entity's own active flag.
func (e *Entity) ActiveSelf() bool {
	return e.active
}

// ActiveInHierarchy reports whether e and every ancestor are active.
func (e *Entity) ActiveInHierarchy() bool {
	for n := e; n != nil; n = n.Parent() {
		if !n.active {
			return false
		}
	}
	return true
}

// SetActive sets the entity's own flag. Components of every entity in the
// subtree whose effective state flips receive OnEnable or OnDisable; a child
// under an inactive ancestor stays inactive whatever its own flag says.
func (e *Entity) SetActive(v bool) {
	if e.active == v {
		return
	}
	e.withActivity(func() { e.active = v })
	e.Changed().Notify()
}

func (e *Entity) withActivity(fn func()) {
	nodes := e.subtree()
	before := make([]bool, len(nodes))
	for i, n := range nodes {
		before[i] = n.ActiveInHierarchy()
	}
	fn()
	for i, n := range nodes {
		if now := n.ActiveInHierarchy(); now != before[i] {
			n.activityChanged(now)
		}
	}
}

func (e *Entity) activityChanged(active bool) {
	for _, c := range e.Components() {
		b := c.Base()
		if !b.enabled || !b.awoken || b.destroyed {
			continue
		}
		if active {
			c.OnEnable()
		} else {
			c.OnDisable()
		}
	}
}

// Destroy tears the entity down: descendants first, then the link to its
// parent, then every component with the Transform last. It is idempotent.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	for _, c := range e.Children() {
		c.Destroy()
	}
	e.transform.detach()

	for i := len(e.components) - 1; i >= 0; i-- {
		if c := e.components[i]; c != Component(e.transform) {
			destroyComponent(c)
		}
	}
	destroyComponent(e.transform)
	e.components = nil

	a := e.arena
	a.remove(e)
	e.arena = nil
	e.Changed().Notify()
	e.Changed().Close()
	if a.scene != nil {
		a.scene.Changed().Notify()
	}
}

// Start runs Start on every enabled component that has not started yet.
func (e *Entity) Start() {
	if e.destroyed || !e.ActiveInHierarchy() {
		return
	}
	for _, c := range e.Components() {
		if c.Base().enabled {
			startComponent(c)
		}
	}
}

func (e *Entity) Update(dt float32) {
	e.eachLive(func(c Component) {
		startComponent(c)
		c.Update(dt)
	})
}

func (e *Entity) FixedUpdate(dt float32) {
	e.eachLive(func(c Component) { c.FixedUpdate(dt) })
}

func (e *Entity) LateUpdate(dt float32) {
	e.eachLive(func(c Component) { c.LateUpdate(dt) })
}

func (e *Entity) eachLive(fn func(Component)) {
	if e.destroyed || !e.ActiveInHierarchy() {
		return
	}
	for _, c := range e.Components() {
		if b := c.Base(); b.enabled && !b.destroyed {
			fn(c)
		}
	}
}
