// Package convert coerces patch values, usually decoded from JSON, into the
// Go types declared at the patched location.
package convert

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/brunoga/jsonpatch/internal/core"
)

// To converts value to typ. When typ is an interface type and hint holds a
// concrete value (the value currently stored at the location), conversion to
// the hint's dynamic type is attempted first so a replaced value keeps its
// shape.
//
// The returned value is always assignable to typ.
func To(value any, typ reflect.Type, hint reflect.Value) (reflect.Value, error) {
	if value == nil {
		if Nilable(typ) {
			return reflect.Zero(typ), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: cannot use null as %v", core.ErrTypeMismatch, typ)
	}

	if typ.Kind() == reflect.Interface && hint.IsValid() {
		for hint.Kind() == reflect.Interface && !hint.IsNil() {
			hint = hint.Elem()
		}
		if hint.Kind() != reflect.Interface && hint.Type().AssignableTo(typ) {
			if v, err := convertValue(reflect.ValueOf(value), hint.Type()); err == nil {
				return v, nil
			}
		}
	}

	v, err := convertValue(reflect.ValueOf(value), typ)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %v", core.ErrTypeMismatch, value, typ)
	}
	return v, nil
}

// Nilable reports whether null is a legal value for typ.
func Nilable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func convertValue(v reflect.Value, targetType reflect.Type) (reflect.Value, error) {
	if v.Type() == targetType || v.Type().AssignableTo(targetType) {
		return v, nil
	}

	// Handle pointer wrapping
	if targetType.Kind() == reflect.Pointer {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Zero(targetType), nil
			}
			v = v.Elem()
		}
		elem, err := convertValue(v, targetType.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(targetType.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	if isNumber(v.Kind()) && isNumber(targetType.Kind()) {
		return convertNumber(v, targetType)
	}

	// Named types over the same basic kind (e.g. type Color string).
	if v.Kind() == targetType.Kind() && isBasic(v.Kind()) {
		return v.Convert(targetType), nil
	}

	// Best effort: round trip through encoding/json, which is how the value
	// would have reached the target had it been decoded directly.
	return viaJSON(v, targetType)
}

func convertNumber(v reflect.Value, targetType reflect.Type) (reflect.Value, error) {
	out := reflect.New(targetType).Elem()

	switch targetType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch {
		case isInt(v.Kind()):
			i = v.Int()
		case isUint(v.Kind()):
			if v.Uint() > math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%v overflows %v", v.Uint(), targetType)
			}
			i = int64(v.Uint())
		default:
			f := v.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%v is not an integer", f)
			}
			i = int64(f)
		}
		if out.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%v overflows %v", i, targetType)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		switch {
		case isInt(v.Kind()):
			if v.Int() < 0 {
				return reflect.Value{}, fmt.Errorf("%v overflows %v", v.Int(), targetType)
			}
			u = uint64(v.Int())
		case isUint(v.Kind()):
			u = v.Uint()
		default:
			f := v.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return reflect.Value{}, fmt.Errorf("%v is not an unsigned integer", f)
			}
			u = uint64(f)
		}
		if out.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%v overflows %v", u, targetType)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		var f float64
		switch {
		case isInt(v.Kind()):
			f = float64(v.Int())
		case isUint(v.Kind()):
			f = float64(v.Uint())
		default:
			f = v.Float()
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%v overflows %v", f, targetType)
		}
		out.SetFloat(f)
	}

	return out, nil
}

func viaJSON(v reflect.Value, targetType reflect.Type) (reflect.Value, error) {
	data, err := json.Marshal(v.Interface())
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(targetType)
	if err := json.Unmarshal(data, out.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return out.Elem(), nil
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isBasic(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Bool || isNumber(k)
}
