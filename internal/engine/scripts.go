package engine

import (
	"fmt"
	"reflect"
	"sort"
)

// ComponentSerializer converts a component to its document form.
type ComponentSerializer func(c Component) (*Document, error)

// ComponentDeserializer seeds a freshly created component from a decoded
// document.
type ComponentDeserializer func(c Component, data map[string]any) error

// ComponentType is one registry entry.
type ComponentType struct {
	Name        string
	Type        reflect.Type
	New         func() Component
	Serialize   ComponentSerializer
	Deserialize ComponentDeserializer
}

// ComponentRegistry maps type names to constructible component types. It is
// owned by the application and filled once at startup.
type ComponentRegistry struct {
	types  map[string]*ComponentType
	byType map[reflect.Type]*ComponentType
}

// NewComponentRegistry returns a registry that already knows Transform.
func NewComponentRegistry() *ComponentRegistry {
	r := &ComponentRegistry{
		types:  make(map[string]*ComponentType),
		byType: make(map[reflect.Type]*ComponentType),
	}
	RegisterType[Transform](r, "Transform")
	return r
}

// Register adds a component type. newFn returns an instance whose fields have
// not been seeded; Create seeds them. Nil serialize or deserialize fall back
// to ToDocument and FromDocument. Registering a name again overwrites it.
func (r *ComponentRegistry) Register(name string, newFn func() Component, serialize ComponentSerializer, deserialize ComponentDeserializer) {
	if serialize == nil {
		serialize = func(c Component) (*Document, error) { return ToDocument(c) }
	}
	if deserialize == nil {
		deserialize = func(c Component, data map[string]any) error { return FromDocument(c, data, nil) }
	}
	if old, ok := r.types[name]; ok {
		delete(r.byType, old.Type)
	}
	ct := &ComponentType{
		Name:        name,
		Type:        reflect.TypeOf(newFn()),
		New:         newFn,
		Serialize:   serialize,
		Deserialize: deserialize,
	}
	r.types[name] = ct
	r.byType[ct.Type] = ct
}

// RegisterType registers *T under name with the reflective serializers.
func RegisterType[T any, PT interface {
	*T
	Component
}](r *ComponentRegistry, name string) {
	r.Register(name, func() Component { return PT(new(T)) }, nil, nil)
}

// Unregister removes name. Unknown names are ignored.
func (r *ComponentRegistry) Unregister(name string) {
	if ct, ok := r.types[name]; ok {
		delete(r.types, name)
		delete(r.byType, ct.Type)
	}
}

// Lookup returns the entry for name.
func (r *ComponentRegistry) Lookup(name string) (*ComponentType, error) {
	ct, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, name)
	}
	return ct, nil
}

// Create returns a new component of the named type with default fields.
func (r *ComponentRegistry) Create(name string) (Component, error) {
	ct, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	c := ct.New()
	if err := Construct(c, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// NameOf returns the registered name of c's concrete type.
func (r *ComponentRegistry) NameOf(c Component) (string, bool) {
	ct, ok := r.byType[reflect.TypeOf(c)]
	if !ok {
		return "", false
	}
	return ct.Name, true
}

// Names returns all registered names, sorted for menus.
func (r *ComponentRegistry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serialize returns c's registered name and document.
func (r *ComponentRegistry) Serialize(c Component) (string, *Document, error) {
	ct, ok := r.byType[reflect.TypeOf(c)]
	if !ok {
		return "", nil, fmt.Errorf("%w: %v is not registered", ErrUnknownComponentType, reflect.TypeOf(c))
	}
	doc, err := ct.Serialize(c)
	if err != nil {
		return "", nil, fmt.Errorf("serialize %s: %w", ct.Name, err)
	}
	return ct.Name, doc, nil
}

// Deserialize creates a component of the named type from data.
func (r *ComponentRegistry) Deserialize(name string, data map[string]any) (Component, error) {
	ct, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	c := ct.New()
	if err := ct.Deserialize(c, data); err != nil {
		return nil, fmt.Errorf("deserialize %s: %w", name, err)
	}
	return c, nil
}
