package engine

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// Codec converts between a field's Go value and the plain value stored in
// a document (numbers, strings, bools, lists, mappings).
type Codec struct {
	Encode func(t reflect.Type, v any) (any, error)
	Decode func(t reflect.Type, raw any) (any, error)
}

var defaultCodec *Codec

func init() {
	defaultCodec = &Codec{Encode: encodeValue, Decode: decodeValue}
}

var (
	serializableType    = reflect.TypeOf((*Serializable)(nil)).Elem()
	vector2Type         = reflect.TypeOf((*rl.Vector2)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func encodeValue(t reflect.Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case Serializable:
		if isNil(val) {
			return nil, nil
		}
		return ToDocument(val)
	case rl.Vector2:
		return []float32{val.X, val.Y}, nil
	case encoding.TextMarshaler:
		b, err := val.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		if isPlainKind(rv.Type().Elem().Kind()) {
			return v, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			e, err := encodeValue(rv.Type().Elem(), rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = e
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v, nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		doc := NewDocument()
		for _, k := range keys {
			e, err := encodeValue(rv.Type().Elem(), rv.MapIndex(k).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%s]: %w", k.String(), err)
			}
			doc.Set(k.String(), e)
		}
		return doc, nil
	}
	return v, nil
}

func decodeValue(t reflect.Type, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if doc, ok := raw.(*Document); ok {
		raw = doc.Map()
	}
	rt := reflect.TypeOf(raw)
	if rt.AssignableTo(t) && t.Kind() != reflect.Interface {
		return raw, nil
	}

	switch {
	case t == vector2Type:
		return decodeVector2(raw)
	case t.Kind() == reflect.Pointer && t.Implements(serializableType):
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: want mapping for %v, got %T", ErrTypeMismatch, t, raw)
		}
		obj := reflect.New(t.Elem()).Interface().(Serializable)
		if err := FromDocument(obj, m, nil); err != nil {
			return nil, err
		}
		return obj, nil
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string for %v, got %T", ErrTypeMismatch, t, raw)
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	case t.Kind() == reflect.Interface:
		if rt.Implements(t) {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: %T does not implement %v", ErrTypeMismatch, raw, t)
	}

	rv := reflect.ValueOf(raw)
	switch t.Kind() {
	case reflect.Bool, reflect.String:
		if rv.Kind() == t.Kind() {
			return rv.Convert(t).Interface(), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if isNumberKind(rv.Kind()) {
			return convertNumber(t, rv)
		}
	case reflect.Slice:
		if rv.Kind() == reflect.Slice {
			out := reflect.MakeSlice(t, rv.Len(), rv.Len())
			for i := 0; i < rv.Len(); i++ {
				e, err := decodeValue(t.Elem(), rv.Index(i).Interface())
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", i, err)
				}
				if e != nil {
					out.Index(i).Set(reflect.ValueOf(e))
				}
			}
			return out.Interface(), nil
		}
	case reflect.Map:
		if m, ok := raw.(map[string]any); ok && t.Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(t, len(m))
			for k, v := range m {
				e, err := decodeValue(t.Elem(), v)
				if err != nil {
					return nil, fmt.Errorf("[%s]: %w", k, err)
				}
				ev := reflect.Zero(t.Elem())
				if e != nil {
					ev = reflect.ValueOf(e)
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
			}
			return out.Interface(), nil
		}
	}
	return decodeVia(t, raw)
}

// decodeVia re-encodes raw as YAML and decodes it into a value of type t.
// It covers plain structs without a dedicated case.
func decodeVia(t reflect.Type, raw any) (any, error) {
	b, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(t)
	if err := yaml.Unmarshal(b, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return ptr.Elem().Interface(), nil
}

func decodeVector2(raw any) (any, error) {
	switch v := raw.(type) {
	case []float32:
		if len(v) == 2 {
			return rl.Vector2{X: v[0], Y: v[1]}, nil
		}
	case []float64:
		if len(v) == 2 {
			return rl.Vector2{X: float32(v[0]), Y: float32(v[1])}, nil
		}
	case []any:
		if len(v) == 2 {
			x, okX := toFloat32(v[0])
			y, okY := toFloat32(v[1])
			if okX && okY {
				return rl.Vector2{X: x, Y: y}, nil
			}
		}
	case map[string]any:
		x, okX := toFloat32(v["x"])
		y, okY := toFloat32(v["y"])
		if okX && okY {
			return rl.Vector2{X: x, Y: y}, nil
		}
	}
	return nil, fmt.Errorf("%w: want [x, y], got %v", ErrTypeMismatch, raw)
}

func toFloat32(v any) (float32, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if !isNumberKind(rv.Kind()) {
		return 0, false
	}
	return float32(rv.Convert(reflect.TypeOf((*float64)(nil)).Elem()).Float()), true
}

// convertNumber converts a document number to t. Integer kinds only take
// whole numbers that fit.
func convertNumber(t reflect.Type, rv reflect.Value) (any, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Convert(t).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, fmt.Errorf("%w: %v is not a whole %v", ErrTypeMismatch, f, t)
			}
			i = int64(f)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt64 {
				return nil, fmt.Errorf("%w: %v overflows %v", ErrTypeMismatch, rv.Uint(), t)
			}
			i = int64(rv.Uint())
		default:
			i = rv.Int()
		}
		if out.OverflowInt(i) {
			return nil, fmt.Errorf("%w: %v overflows %v", ErrTypeMismatch, i, t)
		}
		out.SetInt(i)
	default:
		var u uint64
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return nil, fmt.Errorf("%w: %v is not a whole %v", ErrTypeMismatch, f, t)
			}
			u = uint64(f)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u = rv.Uint()
		default:
			if rv.Int() < 0 {
				return nil, fmt.Errorf("%w: %v is negative for %v", ErrTypeMismatch, rv.Int(), t)
			}
			u = uint64(rv.Int())
		}
		if out.OverflowUint(u) {
			return nil, fmt.Errorf("%w: %v overflows %v", ErrTypeMismatch, u, t)
		}
		out.SetUint(u)
	}
	return out.Interface(), nil
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isPlainKind(k reflect.Kind) bool {
	return isNumberKind(k) || k == reflect.Bool || k == reflect.String
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
