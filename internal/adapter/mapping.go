package adapter

import (
	"fmt"
	"reflect"

	"github.com/brunoga/jsonpatch/internal/convert"
	"github.com/brunoga/jsonpatch/internal/core"
	"github.com/brunoga/jsonpatch/internal/pointer"
)

// mapAdapter handles maps. The segment is the key, verbatim.
type mapAdapter struct{}

func (mapAdapter) lookup(n *Node, seg pointer.Segment) (reflect.Value, reflect.Value, error) {
	key, err := convert.Key(seg.Raw, n.Value.Type().Key())
	if err != nil {
		return reflect.Value{}, reflect.Value{}, err
	}
	return key, n.Value.MapIndex(key), nil
}

func (m mapAdapter) existing(n *Node, seg pointer.Segment) (reflect.Value, reflect.Value, error) {
	key, val, err := m.lookup(n, seg)
	if err != nil {
		return reflect.Value{}, reflect.Value{}, err
	}
	if !val.IsValid() {
		return reflect.Value{}, reflect.Value{}, fmt.Errorf("%w: key %q not found", core.ErrPathNotFound, seg.Raw)
	}
	return key, val, nil
}

func (m mapAdapter) Traverse(n *Node, seg pointer.Segment) (*Node, error) {
	key, val, err := m.existing(n, seg)
	if err != nil {
		return nil, err
	}

	c := reflect.New(val.Type()).Elem()
	c.Set(val)
	container := n.Value
	return n.child(c, func(v reflect.Value) {
		container.SetMapIndex(key, v)
	}, false), nil
}

func (m mapAdapter) Get(n *Node, seg pointer.Segment) (reflect.Value, error) {
	_, val, err := m.existing(n, seg)
	return val, err
}

func (m mapAdapter) Set(n *Node, seg pointer.Segment, value any) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	key, val, err := m.existing(n, seg)
	if err != nil {
		return err
	}

	converted, err := convert.To(value, n.Value.Type().Elem(), val)
	if err != nil {
		return err
	}

	n.Value.SetMapIndex(key, converted)
	n.Commit()
	return nil
}

func (m mapAdapter) Add(n *Node, seg pointer.Segment, value any) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	key, _, err := m.lookup(n, seg)
	if err != nil {
		return err
	}

	converted, err := convert.To(value, n.Value.Type().Elem(), reflect.Value{})
	if err != nil {
		return err
	}

	if n.Value.IsNil() {
		n.Value.Set(reflect.MakeMap(n.Value.Type()))
	}
	n.Value.SetMapIndex(key, converted)
	n.Commit()
	return nil
}

func (m mapAdapter) Remove(n *Node, seg pointer.Segment) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	key, _, err := m.existing(n, seg)
	if err != nil {
		return err
	}

	n.Value.SetMapIndex(key, reflect.Value{})
	n.Commit()
	return nil
}
