package engine

// Component is a typed behaviour or data block owned by exactly one entity.
// Hooks are called by the engine, never directly: each of Awake, Start and
// OnDestroy runs at most once.
type Component interface {
	Serializable
	Awake()
	Start()
	Update(dt float32)
	FixedUpdate(dt float32)
	LateUpdate(dt float32)
	OnEnable()
	OnDisable()
	OnDestroy()
	Entity() *Entity
	Base() *BaseComponent
}

// CollisionHandler is implemented by components that want to receive
// collision callbacks from a physics collaborator.
type CollisionHandler interface {
	OnCollisionEnter(other *Entity)
	OnCollisionExit(other *Entity)
}

// BaseComponent provides the declared enabled/removable fields, the entity
// back-reference and no-op hooks. Embed it in every component.
type BaseComponent struct {
	Observable
	enabled   bool
	removable bool

	entity    *Entity
	self      Component
	awoken    bool
	started   bool
	destroyed bool
}

type componentBase interface {
	Base() *BaseComponent
}

// ComponentSchema declares the fields shared by every component.
var ComponentSchema = NewSchema("Component").With(
	Prop("enabled", true, func(c componentBase) *bool { return &c.Base().enabled },
		WithSetter(func(obj any, v any) error {
			obj.(componentBase).Base().SetEnabled(v.(bool))
			return nil
		})),
	Prop("removable", true, func(c componentBase) *bool { return &c.Base().removable }, Hidden()),
)

func (b *BaseComponent) Schema() *Schema { return ComponentSchema }

func (b *BaseComponent) Base() *BaseComponent { return b }

func (b *BaseComponent) Awake() {}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(dt float32) {}

func (b *BaseComponent) FixedUpdate(dt float32) {}

func (b *BaseComponent) LateUpdate(dt float32) {}

func (b *BaseComponent) OnEnable() {}

func (b *BaseComponent) OnDisable() {}

func (b *BaseComponent) OnDestroy() {}

// Entity returns the owning entity, or nil once destroyed or before being
// attached.
func (b *BaseComponent) Entity() *Entity {
	return b.entity
}

// Enabled reports the component's own enabled flag.
func (b *BaseComponent) Enabled() bool {
	return b.enabled
}

// Removable reports whether RemoveComponent may detach the component.
func (b *BaseComponent) Removable() bool {
	return b.removable
}

// Destroyed reports whether the component was torn down.
func (b *BaseComponent) Destroyed() bool {
	return b.destroyed
}

// SetEnabled sets the enabled flag. OnEnable and OnDisable fire when the
// component's live state flips.
func (b *BaseComponent) SetEnabled(v bool) {
	if b.enabled == v {
		return
	}
	was := b.live()
	b.enabled = v
	b.fireTransition(was)
	b.Changed().Notify()
}

// live reports whether hooks currently reach the component: it is awake,
// enabled and its entity is active in the hierarchy.
func (b *BaseComponent) live() bool {
	return b.enabled && b.awoken && !b.destroyed && b.entity != nil && b.entity.ActiveInHierarchy()
}

func (b *BaseComponent) fireTransition(was bool) {
	now := b.live()
	if was == now || b.self == nil {
		return
	}
	if now {
		b.self.OnEnable()
	} else {
		b.self.OnDisable()
	}
}

func attachComponent(c Component, e *Entity) {
	b := c.Base()
	b.entity = e
	b.self = c
	if !b.awoken {
		b.awoken = true
		c.Awake()
	}
	if b.live() {
		c.OnEnable()
	}
}

func startComponent(c Component) {
	b := c.Base()
	if b.started || b.destroyed {
		return
	}
	b.started = true
	c.Start()
}

func destroyComponent(c Component) {
	b := c.Base()
	if b.destroyed {
		return
	}
	if b.live() {
		c.OnDisable()
	}
	b.destroyed = true
	c.OnDestroy()
	b.entity = nil
	b.Changed().Close()
}
