// Package adapter implements pointer resolution over Go values. One Adapter
// exists per container shape (struct, list, map); the Visitor picks the
// adapter matching each value it walks through.
package adapter

import (
	"fmt"
	"reflect"

	"github.com/brunoga/jsonpatch/internal/convert"
	"github.com/brunoga/jsonpatch/internal/core"
	"github.com/brunoga/jsonpatch/internal/pointer"
	"github.com/brunoga/jsonpatch/naming"
)

// Adapter performs one step of pointer resolution, or the final edit, on a
// container of a given shape. Traverse and Get require the segment to
// address an existing value. Set also requires it and coerces the new value
// using the current one as a hint. Add inserts or overwrites.
type Adapter interface {
	Traverse(n *Node, seg pointer.Segment) (*Node, error)
	Get(n *Node, seg pointer.Segment) (reflect.Value, error)
	Set(n *Node, seg pointer.Segment, value any) error
	Add(n *Node, seg pointer.Segment, value any) error
	Remove(n *Node, seg pointer.Segment) error
}

// Visitor resolves pointers against a target.
type Visitor struct {
	record  recordAdapter
	list    listAdapter
	mapping mapAdapter
}

// NewVisitor returns a Visitor that names struct members with names. A nil
// resolver means naming.Default.
func NewVisitor(names naming.Resolver) *Visitor {
	if names == nil {
		names = naming.Default
	}
	return &Visitor{record: recordAdapter{names: names}}
}

// AdapterFor returns the adapter matching the shape of n.
func (v *Visitor) AdapterFor(n *Node) (Adapter, error) {
	switch n.Value.Kind() {
	case reflect.Struct:
		return v.record, nil
	case reflect.Slice, reflect.Array:
		// encoding/json treats []byte as a base64 string, not a list.
		if n.Value.Kind() == reflect.Slice && n.Value.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		return v.list, nil
	case reflect.Map:
		return v.mapping, nil
	}
	return nil, fmt.Errorf("%w: cannot address into a %v", core.ErrPathNotFound, n.Value.Type())
}

// Resolve walks every segment of p but the last and returns the container
// the last segment applies to, along with its adapter. p must not be the
// root pointer.
func (v *Visitor) Resolve(root *Node, p pointer.Pointer) (*Node, Adapter, pointer.Segment, error) {
	if p.IsRoot() {
		return nil, nil, pointer.Segment{}, fmt.Errorf("%w: the root has no container", core.ErrPathNotFound)
	}

	cur, err := root.Deref()
	if err != nil {
		return nil, nil, pointer.Segment{}, fmt.Errorf("at %q: %w", "", err)
	}

	for i, seg := range p[:len(p)-1] {
		a, err := v.AdapterFor(cur)
		if err != nil {
			return nil, nil, pointer.Segment{}, fmt.Errorf("at %q: %w", p[:i].String(), err)
		}

		next, err := a.Traverse(cur, seg)
		if err != nil {
			return nil, nil, pointer.Segment{}, fmt.Errorf("at %q: %w", p[:i+1].String(), err)
		}

		cur, err = next.Deref()
		if err != nil {
			return nil, nil, pointer.Segment{}, fmt.Errorf("at %q: %w", p[:i+1].String(), err)
		}
	}

	a, err := v.AdapterFor(cur)
	if err != nil {
		return nil, nil, pointer.Segment{}, fmt.Errorf("at %q: %w", p.Parent().String(), err)
	}
	return cur, a, p.Last(), nil
}

// Get returns the value p addresses.
func (v *Visitor) Get(root *Node, p pointer.Pointer) (reflect.Value, error) {
	if p.IsRoot() {
		return root.Value, nil
	}
	n, a, last, err := v.Resolve(root, p)
	if err != nil {
		return reflect.Value{}, err
	}
	val, err := a.Get(n, last)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("at %q: %w", p.String(), err)
	}
	return val, nil
}

// Canonical returns p with every struct member segment spelled the way the
// resolver names that member, so pointers that differ only in member case
// compare equal. The walk stops at the first segment that does not resolve
// and the remaining segments are kept as given. The target is not modified.
func (v *Visitor) Canonical(root *Node, p pointer.Pointer) pointer.Pointer {
	out := make(pointer.Pointer, len(p))
	copy(out, p)

	cur, err := root.Deref()
	if err != nil {
		return out
	}
	for i, seg := range p {
		if cur.Value.Kind() == reflect.Struct {
			m, err := v.record.member(cur, seg)
			if err != nil {
				return out
			}
			out[i] = pointer.Segment{Raw: v.record.names.NameFor(m.Field), Kind: pointer.Member}
		}
		if cur.Value.Kind() == reflect.Map && cur.Value.Type().Key().Kind() != reflect.String {
			// "+1" and "1" name the same int key.
			if key, err := convert.Key(seg.Raw, cur.Value.Type().Key()); err == nil {
				out[i] = pointer.NewSegment(convert.KeyString(key))
			}
		}
		if i == len(p)-1 {
			break
		}

		a, err := v.AdapterFor(cur)
		if err != nil {
			return out
		}
		next, err := a.Traverse(cur, seg)
		if err != nil {
			return out
		}
		if cur, err = next.Deref(); err != nil {
			return out
		}
	}
	return out
}
