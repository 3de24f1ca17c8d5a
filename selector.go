package jsonpatch

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/brunoga/jsonpatch/internal/convert"
	"github.com/brunoga/jsonpatch/internal/core"
	"github.com/brunoga/jsonpatch/internal/pointer"
)

// Selector returns the address of a member of a T. It lets paths be written
// as Go expressions:
//
//	jsonpatch.Field(func(c *Car) *string { return &c.Engine.Model })
//
// A selector may only take addresses and follow struct pointers. It is run
// against a scratch value, never against a patch target.
type Selector[T, V any] func(*T) *V

// Path is a type-safe location of a V inside a T.
type Path[T, V any] struct {
	members func() ([]reflect.StructField, error)
	tail    []string
	typ     reflect.Type
}

// Selection is implemented by every Path rooted at T.
type Selection[T any] interface {
	render(c *config) (string, error)
	valueType() reflect.Type
}

// Field creates a path from a selector. A selector returning its argument
// denotes the whole document.
func Field[T, V any](s Selector[T, V]) Path[T, V] {
	return Path[T, V]{
		members: func() ([]reflect.StructField, error) {
			return selectMembers(s)
		},
		typ: reflect.TypeOf((*V)(nil)).Elem(),
	}
}

// Index returns the path to the i-th element of the list at p.
func (p Path[T, V]) Index(i int) Path[T, any] {
	return extend(p, strconv.Itoa(i), elemType(p.typ))
}

// Append returns the path that appends to the list at p when used with Add.
func (p Path[T, V]) Append() Path[T, any] {
	return extend(p, "-", elemType(p.typ))
}

// Key returns the path to the entry for k in the map at p. Keys are written
// the way map keys are matched when a patch is applied.
func (p Path[T, V]) Key(k any) Path[T, any] {
	token := fmt.Sprint(k)
	if k != nil {
		token = convert.KeyString(reflect.ValueOf(k))
	}
	return extend(p, token, elemType(p.typ))
}

func extend[T, V any](p Path[T, V], token string, typ reflect.Type) Path[T, any] {
	tail := make([]string, len(p.tail), len(p.tail)+1)
	copy(tail, p.tail)
	return Path[T, any]{
		members: p.members,
		tail:    append(tail, token),
		typ:     typ,
	}
}

// elemType is the element type of a list or map type, or nil when it has
// none.
func elemType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem()
	}
	return nil
}

// Pointer renders p as a JSON Pointer. Member names come from the configured
// name resolver and case transform. Map keys and indexes are kept verbatim.
func (p Path[T, V]) Pointer(opts ...Option) (string, error) {
	return p.render(newConfig(opts))
}

// String renders p with the default options. When the selector cannot be
// resolved it returns "!(BADPATH <reason>)", which is never a valid pointer.
func (p Path[T, V]) String() string {
	s, err := p.Pointer()
	if err != nil {
		return fmt.Sprintf("!(BADPATH %v)", err)
	}
	return s
}

func (p Path[T, V]) render(c *config) (string, error) {
	if p.members == nil {
		return "", errors.New("jsonpatch: path has no selector")
	}
	fields, err := p.members()
	if err != nil {
		return "", err
	}

	tokens := make([]string, 0, len(fields)+len(p.tail))
	for _, f := range fields {
		if flattened(f) {
			continue
		}
		name := ""
		if f.IsExported() {
			name = c.names.NameFor(f)
		}
		if name == "" {
			return "", fmt.Errorf("jsonpatch: member %s cannot be addressed by a patch", f.Name)
		}
		tokens = append(tokens, c.transform.Apply(name))
	}
	tokens = append(tokens, p.tail...)
	return pointer.Join("", tokens...), nil
}

func (p Path[T, V]) valueType() reflect.Type {
	return p.typ
}

// flattened reports whether the members of an embedded struct are promoted
// into its parent, in which case the field adds no pointer segment.
func flattened(f reflect.StructField) bool {
	if !f.Anonymous {
		return false
	}
	t := f.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	name, _ := core.JSONName(f)
	return name == ""
}

// probe is a scratch T with every reachable struct pointer allocated, and the
// member chain leading to each addressable field in it.
type probe struct {
	root   reflect.Value
	fields map[probeKey][]reflect.StructField
}

type probeKey struct {
	addr uintptr
	typ  reflect.Type
}

var (
	probeCache   = make(map[reflect.Type]*probe)
	probeCacheMu sync.RWMutex
)

func probeFor(typ reflect.Type) *probe {
	probeCacheMu.RLock()
	p, ok := probeCache[typ]
	probeCacheMu.RUnlock()
	if ok {
		return p
	}

	probeCacheMu.Lock()
	defer probeCacheMu.Unlock()

	if p, ok := probeCache[typ]; ok {
		return p
	}

	p = &probe{
		root:   reflect.New(typ),
		fields: make(map[probeKey][]reflect.StructField),
	}
	if typ.Kind() == reflect.Struct {
		p.scan(p.root.Elem(), nil, make(map[reflect.Type]bool))
	}
	probeCache[typ] = p
	return p
}

// scan records every field of v. Struct pointers are allocated at most once
// per type along a chain so recursive types terminate.
func (p *probe) scan(v reflect.Value, chain []reflect.StructField, active map[reflect.Type]bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		f := v.Field(i)
		fieldChain := append(chain[:len(chain):len(chain)], sf)

		key := probeKey{addr: f.UnsafeAddr(), typ: sf.Type}
		if _, ok := p.fields[key]; !ok {
			p.fields[key] = fieldChain
		}

		switch {
		case sf.Type.Kind() == reflect.Struct:
			p.scan(f, fieldChain, active)
		case sf.Type.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct:
			elem := sf.Type.Elem()
			if active[elem] || !f.CanSet() {
				continue
			}
			f.Set(reflect.New(elem))
			active[elem] = true
			p.scan(f.Elem(), fieldChain, active)
			delete(active, elem)
		}
	}
}

func selectMembers[T, V any](s Selector[T, V]) (fields []reflect.StructField, err error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	valueType := reflect.TypeOf((*V)(nil)).Elem()
	p := probeFor(typ)

	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("jsonpatch: selector on %v panicked: %v", typ, r)
		}
	}()

	ptr := s(p.root.Interface().(*T))
	if ptr == nil {
		return nil, fmt.Errorf("jsonpatch: selector on %v returned nil", typ)
	}

	addr := reflect.ValueOf(ptr).Pointer()
	if addr == p.root.Pointer() && valueType == typ {
		return nil, nil
	}

	chain, ok := p.fields[probeKey{addr: addr, typ: valueType}]
	if !ok {
		return nil, fmt.Errorf("jsonpatch: selector on %v does not return the address of a member", typ)
	}
	return chain, nil
}
