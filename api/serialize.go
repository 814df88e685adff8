package api

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/wippyai/function-runtime/errors"
)

// Marshaler writes itself to the output through ctx.
type Marshaler interface {
	MarshalValue(ctx *Context) error
}

// Unmarshaler populates itself from an input value.
type Unmarshaler interface {
	UnmarshalValue(v Value) error
}

// Marshal writes an arbitrary Go value to the output. Supported are nil,
// booleans, integers, floats, strings, slices, arrays, string-keyed maps
// (keys sorted), pointers, and structs. Struct fields use their json tag
// name when present; unexported and tag "-" fields are skipped. Types
// implementing Marshaler take over their own encoding.
func Marshal(ctx *Context, v any) error {
	if v == nil {
		return ctx.WriteNull()
	}
	if m, ok := v.(Marshaler); ok {
		return m.MarshalValue(ctx)
	}

	switch val := v.(type) {
	case bool:
		return ctx.WriteBool(val)
	case string:
		return ctx.WriteString(val)
	case float64:
		return ctx.WriteFloat64(val)
	case float32:
		return ctx.WriteFloat64(float64(val))
	case int:
		return marshalInt(ctx, int64(val))
	case int8:
		return ctx.WriteInt32(int32(val))
	case int16:
		return ctx.WriteInt32(int32(val))
	case int32:
		return ctx.WriteInt32(val)
	case int64:
		return marshalInt(ctx, val)
	case uint8:
		return ctx.WriteInt32(int32(val))
	case uint16:
		return ctx.WriteInt32(int32(val))
	case uint32:
		return marshalInt(ctx, int64(val))
	case uint:
		return marshalUint(ctx, uint64(val))
	case uint64:
		return marshalUint(ctx, val)
	}

	return marshalReflect(ctx, reflect.ValueOf(v))
}

func marshalInt(ctx *Context, v int64) error {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return ctx.WriteInt32(int32(v))
	}
	return ctx.WriteFloat64(float64(v))
}

func marshalUint(ctx *Context, v uint64) error {
	if v <= math.MaxInt32 {
		return ctx.WriteInt32(int32(v))
	}
	return ctx.WriteFloat64(float64(v))
}

func marshalReflect(ctx *Context, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ctx.WriteNull()
		}
		return Marshal(ctx, rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		n := rv.Len()
		return ctx.WriteArray(n, func() error {
			for i := 0; i < n; i++ {
				if err := Marshal(ctx, rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		})

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return errors.New(errors.PhaseSerialize, errors.KindUnsupported).
				GoType(rv.Type().String()).
				Detail("map keys must be strings").
				Build()
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return ctx.WriteObject(len(keys), func() error {
			for _, k := range keys {
				if err := ctx.WriteString(k); err != nil {
					return err
				}
				if err := Marshal(ctx, rv.MapIndex(reflect.ValueOf(k)).Interface()); err != nil {
					return err
				}
			}
			return nil
		})

	case reflect.Struct:
		fields := structFields(rv.Type())
		return ctx.WriteObject(len(fields), func() error {
			for _, f := range fields {
				if err := ctx.WriteString(f.name); err != nil {
					return err
				}
				if err := Marshal(ctx, rv.Field(f.index).Interface()); err != nil {
					return err
				}
			}
			return nil
		})

	default:
		return errors.New(errors.PhaseSerialize, errors.KindUnsupported).
			GoType(rv.Type().String()).
			Detail("cannot marshal value").
			Build()
	}
}

type structField struct {
	name  string
	index int
}

func structFields(t reflect.Type) []structField {
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fields = append(fields, structField{name: name, index: i})
	}
	return fields
}

// Unmarshal populates dst, which must be a non-nil pointer, from an input
// value. Error-kind values fail with the carried read error code. Null
// assigns the zero value (nil for pointers, slices, and maps). Types
// implementing Unmarshaler take over their own decoding.
func Unmarshal(v Value, dst any) error {
	if u, ok := dst.(Unmarshaler); ok {
		return u.UnmarshalValue(v)
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NilPointer(errors.PhaseSerialize, nil, fmt.Sprintf("%T", dst))
	}
	return unmarshalReflect(v, rv.Elem())
}

func unmarshalReflect(v Value, rv reflect.Value) error {
	if code, isErr := v.AsError(); isErr {
		return errors.New(errors.PhaseRead, errors.KindInvalidData).
			Detail("input read failed: %s", code).
			Build()
	}

	kind := v.Kind()
	if kind == KindNull {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		elem := reflect.New(rv.Type().Elem())
		if err := unmarshalReflect(v, elem.Elem()); err != nil {
			return err
		}
		rv.Set(elem)
		return nil

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return errors.New(errors.PhaseSerialize, errors.KindUnsupported).
				GoType(rv.Type().String()).
				Detail("cannot unmarshal into non-empty interface").
				Build()
		}
		out, err := materialize(v)
		if err != nil {
			return err
		}
		if out == nil {
			rv.Set(reflect.Zero(rv.Type()))
		} else {
			rv.Set(reflect.ValueOf(out))
		}
		return nil

	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return typeMismatch(kind, "bool")
		}
		rv.SetBool(b)
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := v.AsNumber()
		if !ok {
			return typeMismatch(kind, "number")
		}
		rv.SetFloat(f)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := v.AsNumber()
		if !ok {
			return typeMismatch(kind, "number")
		}
		rv.SetInt(int64(f))
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := v.AsNumber()
		if !ok {
			return typeMismatch(kind, "number")
		}
		rv.SetUint(uint64(f))
		return nil

	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return typeMismatch(kind, "string")
		}
		rv.SetString(s)
		return nil

	case reflect.Slice:
		if kind != KindArray {
			return typeMismatch(kind, "array")
		}
		n := int(v.Len())
		out := reflect.MakeSlice(rv.Type(), n, n)
		for i := 0; i < n; i++ {
			if err := unmarshalReflect(v.GetAtIndex(uint32(i)), out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil

	case reflect.Map:
		if kind != KindObject {
			return typeMismatch(kind, "object")
		}
		if rv.Type().Key().Kind() != reflect.String {
			return errors.New(errors.PhaseSerialize, errors.KindUnsupported).
				GoType(rv.Type().String()).
				Detail("map keys must be strings").
				Build()
		}
		n := int(v.Len())
		out := reflect.MakeMapWithSize(rv.Type(), n)
		for i := 0; i < n; i++ {
			key, ok := v.GetKeyAtIndex(uint32(i)).AsString()
			if !ok {
				return typeMismatch(kind, "string key")
			}
			elem := reflect.New(rv.Type().Elem())
			if err := unmarshalReflect(v.GetAtIndex(uint32(i)), elem.Elem()); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(key), elem.Elem())
		}
		rv.Set(out)
		return nil

	case reflect.Struct:
		if kind != KindObject {
			return typeMismatch(kind, "object")
		}
		for _, f := range structFields(rv.Type()) {
			prop := v.GetProp(f.name)
			if prop.IsNull() {
				continue
			}
			if err := unmarshalReflect(prop, rv.Field(f.index)); err != nil {
				return errors.New(errors.PhaseSerialize, errors.KindInvalidData).
					Path(f.name).
					Cause(err).
					Detail("unmarshal field").
					Build()
			}
		}
		return nil

	default:
		return errors.New(errors.PhaseSerialize, errors.KindUnsupported).
			GoType(rv.Type().String()).
			Detail("cannot unmarshal value").
			Build()
	}
}

func typeMismatch(got Kind, want string) error {
	return errors.TypeMismatch(errors.PhaseSerialize, nil, got.String(), want)
}

// materialize copies an input value into plain Go data: nil, bool, float64,
// string, []any, or map[string]any.
func materialize(v Value) (any, error) {
	if code, isErr := v.AsError(); isErr {
		return nil, errors.New(errors.PhaseRead, errors.KindInvalidData).
			Detail("input read failed: %s", code).
			Build()
	}
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindBool:
		b, _ := v.AsBool()
		return b, nil
	case KindNumber:
		f, _ := v.AsNumber()
		return f, nil
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindArray:
		n := int(v.Len())
		out := make([]any, n)
		for i := 0; i < n; i++ {
			elem, err := materialize(v.GetAtIndex(uint32(i)))
			if err != nil {
				return nil, err
			}
			out[i] = elem
		}
		return out, nil
	case KindObject:
		n := int(v.Len())
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			key, ok := v.GetKeyAtIndex(uint32(i)).AsString()
			if !ok {
				return nil, typeMismatch(v.Kind(), "string key")
			}
			val, err := materialize(v.GetAtIndex(uint32(i)))
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	default:
		return nil, typeMismatch(v.Kind(), "value")
	}
}
