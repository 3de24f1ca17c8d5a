package adapter

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/brunoga/jsonpatch/internal/convert"
	"github.com/brunoga/jsonpatch/internal/core"
	"github.com/brunoga/jsonpatch/internal/pointer"
	"github.com/brunoga/jsonpatch/naming"
)

// recordAdapter handles structs. Members are matched case-insensitively
// against the names produced by the resolver. Structs have a fixed shape:
// removing a member resets it to its zero value.
type recordAdapter struct {
	names naming.Resolver
}

func (r recordAdapter) member(n *Node, seg pointer.Segment) (core.FieldInfo, error) {
	if seg.Kind == pointer.Negative {
		return core.FieldInfo{}, fmt.Errorf("%w: %q is not a member name", core.ErrPathNotFound, seg.Raw)
	}

	info := core.GetTypeInfo(n.Value.Type())
	for _, f := range info.Fields {
		name := r.names.NameFor(f.Field)
		if name != "" && strings.EqualFold(name, seg.Raw) {
			return f, nil
		}
	}

	return core.FieldInfo{}, fmt.Errorf("%w: member %q not found in %v", core.ErrPathNotFound, seg.Raw, n.Value.Type())
}

// field returns the member value. Nil embedded struct pointers on the way are
// allocated when alloc is set; otherwise ok is false.
func field(v reflect.Value, index []int, alloc bool) (f reflect.Value, ok bool, err error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false, nil
				}
				if !v.CanSet() {
					return reflect.Value{}, false, fmt.Errorf("%w: cannot allocate embedded %v", core.ErrNotWritable, v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true, nil
}

func (r recordAdapter) Traverse(n *Node, seg pointer.Segment) (*Node, error) {
	m, err := r.member(n, seg)
	if err != nil {
		return nil, err
	}

	f, ok, err := field(n.Value, m.Index, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: member %q is inside a nil embedded struct", core.ErrPathNotFound, seg.Raw)
	}
	return n.child(f, nil, m.Tag.ReadOnly), nil
}

func (r recordAdapter) Get(n *Node, seg pointer.Segment) (reflect.Value, error) {
	m, err := r.member(n, seg)
	if err != nil {
		return reflect.Value{}, err
	}

	f, ok, err := field(n.Value, m.Index, false)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return reflect.Zero(m.Field.Type), nil
	}
	return f, nil
}

// writable resolves the member addressed by seg for a mutation.
func (r recordAdapter) writable(n *Node, seg pointer.Segment) (core.FieldInfo, error) {
	m, err := r.member(n, seg)
	if err != nil {
		return core.FieldInfo{}, err
	}
	if m.Tag.ReadOnly {
		return core.FieldInfo{}, fmt.Errorf("%w: member %q is read-only", core.ErrNotWritable, seg.Raw)
	}
	if err := n.checkWritable(); err != nil {
		return core.FieldInfo{}, err
	}
	return m, nil
}

func (r recordAdapter) Set(n *Node, seg pointer.Segment, value any) error {
	m, err := r.writable(n, seg)
	if err != nil {
		return err
	}

	hint := reflect.Value{}
	if f, ok, _ := field(n.Value, m.Index, false); ok {
		hint = f
	}

	converted, err := convert.To(value, m.Field.Type, hint)
	if err != nil {
		return err
	}

	f, _, err := field(n.Value, m.Index, true)
	if err != nil {
		return err
	}
	f.Set(converted)
	n.Commit()
	return nil
}

func (r recordAdapter) Add(n *Node, seg pointer.Segment, value any) error {
	m, err := r.writable(n, seg)
	if err != nil {
		return err
	}

	converted, err := convert.To(value, m.Field.Type, reflect.Value{})
	if err != nil {
		return err
	}

	f, _, err := field(n.Value, m.Index, true)
	if err != nil {
		return err
	}
	f.Set(converted)
	n.Commit()
	return nil
}

func (r recordAdapter) Remove(n *Node, seg pointer.Segment) error {
	m, err := r.writable(n, seg)
	if err != nil {
		return err
	}

	f, ok, err := field(n.Value, m.Index, false)
	if err != nil {
		return err
	}
	if ok {
		f.Set(reflect.Zero(f.Type()))
		n.Commit()
	}
	return nil
}
