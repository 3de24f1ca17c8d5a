// Package naming decides how Go struct members are spelled inside JSON
// Pointers. The same Resolver is used when resolving pointers against a
// struct and when rendering typed paths, so a path built from a selector
// always resolves against the type it was built from.
package naming

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brunoga/jsonpatch/internal/core"
)

// Resolver maps a struct member to its serialized name. An empty name hides
// the member.
type Resolver interface {
	NameFor(field reflect.StructField) string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(field reflect.StructField) string

func (f ResolverFunc) NameFor(field reflect.StructField) string {
	return f(field)
}

// JSON names members the way encoding/json does: the json tag name when one
// is declared, the Go field name otherwise.
type JSON struct{}

func (JSON) NameFor(field reflect.StructField) string {
	name, hidden := core.JSONName(field)
	if hidden {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Tag names members after an arbitrary struct tag key, falling back to the
// Go field name. Tag{Key: "yaml"} matches YAML-decoded documents.
type Tag struct {
	Key string
}

func (t Tag) NameFor(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup(t.Key)
	if !ok {
		return field.Name
	}
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// Default is the resolver used when none is configured.
var Default Resolver = JSON{}

// CaseTransform is applied to every member segment of a typed path.
type CaseTransform int

const (
	// LowerCase lower-cases the whole name ("StringProperty" ->
	// "stringproperty"). It is the default.
	LowerCase CaseTransform = iota
	// OriginalCase keeps the name as declared.
	OriginalCase
	// UpperCase upper-cases the whole name.
	UpperCase
	// CamelCase lower-cases the first rune only ("StringProperty" ->
	// "stringProperty").
	CamelCase
)

func (c CaseTransform) String() string {
	switch c {
	case LowerCase:
		return "lower"
	case OriginalCase:
		return "original"
	case UpperCase:
		return "upper"
	case CamelCase:
		return "camel"
	default:
		return fmt.Sprintf("CaseTransform(%d)", int(c))
	}
}

// Apply transforms name.
func (c CaseTransform) Apply(name string) string {
	switch c {
	case OriginalCase:
		return name
	case UpperCase:
		return strings.ToUpper(name)
	case CamelCase:
		r, size := utf8.DecodeRuneInString(name)
		if r == utf8.RuneError {
			return name
		}
		return string(unicode.ToLower(r)) + name[size:]
	default:
		return strings.ToLower(name)
	}
}

// ParseCaseTransform parses the String form of a CaseTransform.
func ParseCaseTransform(s string) (CaseTransform, error) {
	switch strings.ToLower(s) {
	case "", "lower":
		return LowerCase, nil
	case "original":
		return OriginalCase, nil
	case "upper":
		return UpperCase, nil
	case "camel":
		return CamelCase, nil
	}
	return LowerCase, fmt.Errorf("unknown case transform %q", s)
}
