package adapter

import (
	"fmt"
	"reflect"

	"github.com/brunoga/jsonpatch/internal/core"
)

// Node is a settable view of one value met while walking a pointer, linked
// to the node it was reached from.
//
// Map entries and the contents of interfaces are not addressable, so they are
// copied into a fresh settable value; store writes that copy back into the
// parent. Commit must be called after every mutation so those copies reach
// the target.
type Node struct {
	Value    reflect.Value
	parent   *Node
	store    func(reflect.Value)
	readOnly bool
	detached bool
}

// Root wraps a patch target. target must be a non-nil pointer, or a non-nil
// map, which is mutated in place but cannot be replaced as a whole.
func Root(target any) (*Node, error) {
	v := reflect.ValueOf(target)
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %v", core.ErrInvalidTarget, v.Type())
		}
		return &Node{Value: v.Elem()}, nil
	case reflect.Map:
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %v", core.ErrInvalidTarget, v.Type())
		}
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		return &Node{Value: c, detached: true}, nil
	case reflect.Invalid:
		return nil, fmt.Errorf("%w: nil target", core.ErrInvalidTarget)
	default:
		return nil, fmt.Errorf("%w: %v is neither a pointer nor a map", core.ErrInvalidTarget, v.Type())
	}
}

// Replace overwrites the value held by n itself. It is how operations on the
// root pointer are carried out.
func (n *Node) Replace(v reflect.Value) error {
	if n.detached || n.readOnly || !n.Value.CanSet() {
		return fmt.Errorf("%w: %v cannot be replaced as a whole", core.ErrNotWritable, n.Value.Type())
	}
	n.Value.Set(v)
	n.Commit()
	return nil
}

// Commit propagates the value of n, and of every copy between n and the
// root, back into the target.
func (n *Node) Commit() {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.store != nil {
			cur.store(cur.Value)
		}
	}
}

func (n *Node) child(v reflect.Value, store func(reflect.Value), readOnly bool) *Node {
	return &Node{
		Value:    v,
		parent:   n,
		store:    store,
		readOnly: n.readOnly || readOnly,
	}
}

// Deref follows pointers and interfaces until it reaches a concrete value.
func (n *Node) Deref() (*Node, error) {
	cur := n
	for {
		v := cur.Value
		switch v.Kind() {
		case reflect.Pointer:
			if v.IsNil() {
				return nil, fmt.Errorf("%w: nil %v", core.ErrPathNotFound, v.Type())
			}
			cur = cur.child(v.Elem(), nil, false)
		case reflect.Interface:
			if v.IsNil() {
				return nil, fmt.Errorf("%w: nil value", core.ErrPathNotFound)
			}
			elem := v.Elem()
			c := reflect.New(elem.Type()).Elem()
			c.Set(elem)
			cur = cur.child(c, v.Set, false)
		default:
			return cur, nil
		}
	}
}

func (n *Node) checkWritable() error {
	if n.readOnly {
		return fmt.Errorf("%w: %v is read-only", core.ErrNotWritable, n.Value.Type())
	}
	if !n.Value.CanSet() {
		return fmt.Errorf("%w: %v is not addressable", core.ErrNotWritable, n.Value.Type())
	}
	return nil
}
