package engine

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// Serializable is implemented by every type with declared fields: entities,
// components, layers and any nested value object.
type Serializable interface {
	Schema() *Schema
	Changed() *Channel
}

// AfterLoader is implemented by types that fix up derived state after their
// fields were seeded by Construct, FromDocument or Clone.
type AfterLoader interface {
	AfterLoad()
}

// Observable provides the change channel of a Serializable. Embed it.
type Observable struct {
	changed Channel
}

// Changed returns the instance's change channel.
func (o *Observable) Changed() *Channel {
	return &o.changed
}

// Construct seeds every declared field of obj. Keys of values name fields
// and are validated against their type hints; every other field receives a
// freshly materialized default. Nothing is stored if any value is rejected.
func Construct(obj Serializable, values map[string]any) error {
	s := obj.Schema()
	for k, v := range values {
		f, ok := s.Field(k)
		if !ok {
			return &FieldError{Schema: s.Name(), Field: k, Err: ErrUnknownField}
		}
		if !f.Check(v) {
			return f.mismatch(s.Name(), v)
		}
	}
	for _, f := range s.fields {
		if v, ok := values[f.Name]; ok {
			f.store(obj, v)
			continue
		}
		f.store(obj, f.Default())
	}
	afterLoad(obj)
	return nil
}

// MustConstruct is Construct for statically known values. It panics on error.
func MustConstruct(obj Serializable, values map[string]any) {
	if err := Construct(obj, values); err != nil {
		panic(err)
	}
}

// ToDocument encodes every persisted field of obj, in declaration order.
func ToDocument(obj Serializable) (*Document, error) {
	s := obj.Schema()
	doc := NewDocument()
	for _, f := range s.fields {
		if f.NotPersisted {
			continue
		}
		v, err := f.Codec().Encode(f.Type, f.Get(obj))
		if err != nil {
			return nil, &FieldError{Schema: s.Name(), Field: f.Name, Err: err}
		}
		doc.Set(f.Name, v)
	}
	return doc, nil
}

// FromDocument seeds obj from a decoded document. Keys the schema does not
// declare are ignored and missing keys fall back to defaults. Overrides are
// Go values and take precedence over the document. obj is left untouched on
// error.
func FromDocument(obj Serializable, doc map[string]any, overrides map[string]any) error {
	s := obj.Schema()
	values := make([]any, len(s.fields))
	for i, f := range s.fields {
		if v, ok := overrides[f.Name]; ok {
			if !f.Check(v) {
				decoded, err := f.Codec().Decode(f.Type, v)
				if err != nil || !f.Check(decoded) {
					return f.mismatch(s.Name(), v)
				}
				v = decoded
			}
			values[i] = v
			continue
		}
		raw, ok := doc[f.Name]
		if !ok {
			values[i] = f.Default()
			continue
		}
		v, err := f.Codec().Decode(f.Type, raw)
		if err != nil {
			return &FieldError{Schema: s.Name(), Field: f.Name, Err: err}
		}
		if !f.Check(v) {
			return f.mismatch(s.Name(), v)
		}
		values[i] = v
	}
	for i, f := range s.fields {
		f.store(obj, values[i])
	}
	afterLoad(obj)
	return nil
}

// Set assigns a field through its descriptor and notifies the change
// channel. A field with a custom setter notifies on its own.
func Set(obj Serializable, name string, v any) error {
	s := obj.Schema()
	f, ok := s.Field(name)
	if !ok {
		return &FieldError{Schema: s.Name(), Field: name, Err: ErrUnknownField}
	}
	if f.ReadOnly {
		return &FieldError{Schema: s.Name(), Field: name, Err: ErrReadOnly}
	}
	if !f.Check(v) {
		return f.mismatch(s.Name(), v)
	}
	if f.setter != nil {
		if v == nil {
			v = reflect.Zero(f.Type).Interface()
		}
		return f.setter(obj, v)
	}
	f.store(obj, v)
	obj.Changed().Notify()
	return nil
}

// Get reads a field through its descriptor.
func Get(obj Serializable, name string) (any, error) {
	s := obj.Schema()
	f, ok := s.Field(name)
	if !ok {
		return nil, &FieldError{Schema: s.Name(), Field: name, Err: ErrUnknownField}
	}
	return f.Get(obj), nil
}

// VisibleFields returns the fields a property grid shows for obj.
func VisibleFields(obj Serializable) []*Field {
	return obj.Schema().Visible()
}

// Clone deep copies every field of src into dst. Both must share a schema.
// Read-only fields keep the value dst already holds.
func Clone(dst, src Serializable) error {
	s := src.Schema()
	if dst.Schema() != s {
		return fmt.Errorf("clone %s into %s: %w", s.Name(), dst.Schema().Name(), ErrTypeMismatch)
	}
	values := make([]any, len(s.fields))
	for i, f := range s.fields {
		if f.ReadOnly {
			continue
		}
		v, err := cloneAny(f.Get(src))
		if err != nil {
			return &FieldError{Schema: s.Name(), Field: f.Name, Err: err}
		}
		values[i] = v
	}
	for i, f := range s.fields {
		if f.ReadOnly {
			continue
		}
		f.store(dst, values[i])
	}
	afterLoad(dst)
	return nil
}

func cloneAny(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if src, ok := v.(Serializable); ok && !isNil(src) {
		rt := reflect.TypeOf(src)
		if rt.Kind() == reflect.Pointer {
			dst := reflect.New(rt.Elem()).Interface().(Serializable)
			if err := Construct(dst, nil); err != nil {
				return nil, err
			}
			if err := Clone(dst, src); err != nil {
				return nil, err
			}
			return dst, nil
		}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return v, nil
		}
		out := reflect.New(rv.Type())
		if err := copier.CopyWithOption(out.Interface(), v, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}
		return out.Elem().Interface(), nil
	}
	return v, nil
}

// RemapRefs rewrites every EntityRef held by obj, directly, in a slice or in
// a nested Serializable, whose id is a key of ids.
func RemapRefs(obj Serializable, ids map[EntityID]EntityID) {
	for _, f := range obj.Schema().fields {
		switch v := f.Get(obj).(type) {
		case EntityRef:
			if n, ok := ids[v.ID]; ok {
				f.store(obj, EntityRef{ID: n})
			}
		case []EntityRef:
			out := make([]EntityRef, len(v))
			for i, r := range v {
				out[i] = r
				if n, ok := ids[r.ID]; ok {
					out[i].ID = n
				}
			}
			f.store(obj, out)
		case Serializable:
			if !isNil(v) {
				RemapRefs(v, ids)
			}
		}
	}
}

func afterLoad(obj Serializable) {
	if l, ok := obj.(AfterLoader); ok {
		l.AfterLoad()
	}
}
