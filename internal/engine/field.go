package engine

import (
	"reflect"

	"github.com/jinzhu/copier"
)

// Field describes one declared, typed and defaulted property of a
// serializable type. Storage lives in the concrete instance; the field only
// knows how to reach it.
type Field struct {
	Name string
	// Type is the type hint. Values stored through the field must be
	// assignable to it or be nil.
	Type reflect.Type

	// UIHidden keeps the field out of the property grid. It is still saved.
	UIHidden bool
	// NotPersisted keeps the field out of documents. It is still shown
	// unless UIHidden is also set.
	NotPersisted bool
	// ReadOnly rejects assignments made through Set. Construction and
	// document loading still seed the slot.
	ReadOnly bool

	def    func() any
	load   func(obj any) any
	store  func(obj any, v any)
	getter func(obj any) any
	setter func(obj any, v any) error
	codec  *Codec
}

// FieldOption configures a Field at declaration time.
type FieldOption func(*Field)

// UIHidden hides the field from the property grid only.
func UIHidden() FieldOption {
	return func(f *Field) { f.UIHidden = true }
}

// NotPersisted excludes the field from saved documents only.
func NotPersisted() FieldOption {
	return func(f *Field) { f.NotPersisted = true }
}

// Hidden is UIHidden and NotPersisted together.
func Hidden() FieldOption {
	return func(f *Field) {
		f.UIHidden = true
		f.NotPersisted = true
	}
}

// ReadOnly rejects assignments through Set.
func ReadOnly() FieldOption {
	return func(f *Field) { f.ReadOnly = true }
}

// WithGetter overrides how the value is read.
func WithGetter(fn func(obj any) any) FieldOption {
	return func(f *Field) { f.getter = fn }
}

// WithSetter overrides how Set stores the value. The value has already been
// checked against the type hint when fn runs.
func WithSetter(fn func(obj any, v any) error) FieldOption {
	return func(f *Field) { f.setter = fn }
}

// WithCodec overrides how the value is written to and read from documents.
func WithCodec(c *Codec) FieldOption {
	return func(f *Field) { f.codec = c }
}

// Prop declares a field whose default is a plain value. Slice and map
// defaults are deep copied for every instance.
//
//	engine.Prop("mass", float32(1), func(r *RigidBody) *float32 { return &r.Mass })
func Prop[O any, T any](name string, def T, slot func(O) *T, opts ...FieldOption) *Field {
	f := newField(name, slot, opts)
	f.def = func() any { return cloneValue(def) }
	return f
}

// PropFunc declares a field whose default is produced on demand.
func PropFunc[O any, T any](name string, producer func() T, slot func(O) *T, opts ...FieldOption) *Field {
	f := newField(name, slot, opts)
	f.def = func() any { return producer() }
	return f
}

func newField[O any, T any](name string, slot func(O) *T, opts []FieldOption) *Field {
	f := &Field{
		Name: name,
		Type: reflect.TypeOf((*T)(nil)).Elem(),
		load: func(obj any) any {
			return *slot(obj.(O))
		},
		store: func(obj any, v any) {
			p := slot(obj.(O))
			if v == nil {
				var zero T
				*p = zero
				return
			}
			if t, ok := v.(T); ok {
				*p = t
				return
			}
			reflect.ValueOf(p).Elem().Set(reflect.ValueOf(v))
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Default returns a freshly materialized default value.
func (f *Field) Default() any {
	if f.def == nil {
		return reflect.Zero(f.Type).Interface()
	}
	return f.def()
}

// Get reads the field from obj.
func (f *Field) Get(obj any) any {
	if f.getter != nil {
		return f.getter(obj)
	}
	return f.load(obj)
}

// Check reports whether v may be stored in the field.
func (f *Field) Check(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).AssignableTo(f.Type)
}

// Codec returns the codec used for documents.
func (f *Field) Codec() *Codec {
	if f.codec != nil {
		return f.codec
	}
	return defaultCodec
}

func (f *Field) mismatch(schema string, v any) *FieldError {
	return &FieldError{
		Schema: schema,
		Field:  f.Name,
		Want:   f.Type,
		Got:    reflect.TypeOf(v),
		Err:    ErrTypeMismatch,
	}
}

// cloneValue deep copies slices and maps so a default is never shared
// between instances.
func cloneValue[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return v
		}
		var out T
		if err := copier.CopyWithOption(&out, v, copier.Option{DeepCopy: true}); err != nil {
			return v
		}
		return out
	}
	return v
}
