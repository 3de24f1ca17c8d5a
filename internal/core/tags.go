package core

import (
	"reflect"
	"strings"
)

// StructTag holds the options read from a `jsonpatch:"..."` struct tag.
type StructTag struct {
	Ignore   bool
	ReadOnly bool
}

func ParseTag(field reflect.StructField) StructTag {
	tag := field.Tag.Get("jsonpatch")
	if tag == "" {
		return StructTag{}
	}

	st := StructTag{}
	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "-":
			st.Ignore = true
		case "readonly":
			st.ReadOnly = true
		}
	}

	return st
}

// JSONName returns the member name declared by the field's json tag, if any.
// hidden is true for `json:"-"`, which encoding/json never reads or writes.
func JSONName(field reflect.StructField) (name string, hidden bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	return name, false
}
