package engine

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch is returned when a value assigned through a field
	// descriptor is neither nil nor assignable to the field's type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownField is returned when construction names a field the
	// schema does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidParent is returned for self-parenting and cyclic reparenting.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrUnknownComponentType is returned when a component type name is not
	// present in the registry.
	ErrUnknownComponentType = errors.New("unknown component type")

	// ErrNotInScene is returned when an operation needs an entity that
	// belongs to a different scene.
	ErrNotInScene = errors.New("entity not in scene")

	// ErrDestroyed is returned when mutating an entity after Destroy.
	ErrDestroyed = errors.New("entity destroyed")

	// ErrReadOnly is returned by Set for fields declared ReadOnly.
	ErrReadOnly = errors.New("read-only field")

	// ErrAttached is returned when adding a component that already belongs
	// to another entity.
	ErrAttached = errors.New("component attached to another entity")
)

// FieldError describes a failed field assignment.
type FieldError struct {
	Schema string
	Field  string
	Want   reflect.Type
	Got    reflect.Type
	Err    error
}

func (e *FieldError) Error() string {
	if e.Got != nil {
		return fmt.Sprintf("%s.%s: %v: want %v, got %v", e.Schema, e.Field, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("%s.%s: %v", e.Schema, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
