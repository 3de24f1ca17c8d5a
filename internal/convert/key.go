package convert

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/brunoga/jsonpatch/internal/core"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// Key builds a map key of keyType from an unescaped pointer segment.
func Key(segment string, keyType reflect.Type) (reflect.Value, error) {
	if reflect.PointerTo(keyType).Implements(textUnmarshalerType) {
		key := reflect.New(keyType)
		if err := key.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(segment)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: invalid map key %q: %v", core.ErrPathNotFound, segment, err)
		}
		return key.Elem(), nil
	}

	key := reflect.New(keyType).Elem()

	switch keyType.Kind() {
	case reflect.String:
		key.SetString(segment)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(segment, 10, keyType.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: invalid map key %q: %v", core.ErrPathNotFound, segment, err)
		}
		key.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(segment, 10, keyType.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: invalid map key %q: %v", core.ErrPathNotFound, segment, err)
		}
		key.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(segment, keyType.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: invalid map key %q: %v", core.ErrPathNotFound, segment, err)
		}
		key.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(segment)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: invalid map key %q: %v", core.ErrPathNotFound, segment, err)
		}
		key.SetBool(b)
	default:
		return reflect.Value{}, fmt.Errorf("%w: unsupported map key type %v", core.ErrPathNotFound, keyType)
	}

	return key, nil
}

// KeyString renders a map key back into a pointer segment.
func KeyString(key reflect.Value) string {
	if m, ok := key.Interface().(encoding.TextMarshaler); ok {
		if text, err := m.MarshalText(); err == nil {
			return string(text)
		}
	}
	return fmt.Sprint(key.Interface())
}
