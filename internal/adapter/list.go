package adapter

import (
	"fmt"
	"reflect"

	"github.com/brunoga/jsonpatch/internal/convert"
	"github.com/brunoga/jsonpatch/internal/core"
	"github.com/brunoga/jsonpatch/internal/pointer"
)

// listAdapter handles slices and arrays. Arrays have a fixed length, so only
// Get and Set apply to them.
type listAdapter struct{}

// position maps seg to an index of the list held by n. For inserts the valid
// range is [0, len], the append marker meaning len. Otherwise it is
// [0, len), the append marker meaning the last element.
func position(n *Node, seg pointer.Segment, insert bool) (int, error) {
	length := n.Value.Len()

	switch seg.Kind {
	case pointer.Append:
		if insert {
			return length, nil
		}
		if length == 0 {
			return 0, fmt.Errorf("%w: list is empty", core.ErrInvalidPosition)
		}
		return length - 1, nil
	case pointer.Index:
		limit := length
		if !insert {
			limit--
		}
		if seg.Index > limit {
			return 0, fmt.Errorf("%w: index %d out of bounds for list of length %d",
				core.ErrInvalidPosition, seg.Index, length)
		}
		return seg.Index, nil
	case pointer.Negative:
		return 0, fmt.Errorf("%w: negative index %d", core.ErrInvalidPosition, seg.Index)
	default:
		return 0, fmt.Errorf("%w: %q is not a list index", core.ErrPathNotFound, seg.Raw)
	}
}

func (listAdapter) Traverse(n *Node, seg pointer.Segment) (*Node, error) {
	i, err := position(n, seg, false)
	if err != nil {
		return nil, err
	}
	return n.child(n.Value.Index(i), nil, false), nil
}

func (listAdapter) Get(n *Node, seg pointer.Segment) (reflect.Value, error) {
	i, err := position(n, seg, false)
	if err != nil {
		return reflect.Value{}, err
	}
	return n.Value.Index(i), nil
}

func (listAdapter) Set(n *Node, seg pointer.Segment, value any) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	i, err := position(n, seg, false)
	if err != nil {
		return err
	}

	elem := n.Value.Index(i)
	converted, err := convert.To(value, elem.Type(), elem)
	if err != nil {
		return err
	}

	elem.Set(converted)
	n.Commit()
	return nil
}

func (listAdapter) Add(n *Node, seg pointer.Segment, value any) error {
	if n.Value.Kind() == reflect.Array {
		return fmt.Errorf("%w: cannot insert into fixed-size %v", core.ErrNotWritable, n.Value.Type())
	}
	if err := n.checkWritable(); err != nil {
		return err
	}
	i, err := position(n, seg, true)
	if err != nil {
		return err
	}

	converted, err := convert.To(value, n.Value.Type().Elem(), reflect.Value{})
	if err != nil {
		return err
	}

	// Build a new backing array so slices sharing the old one are not
	// disturbed.
	old := n.Value
	newSlice := reflect.MakeSlice(old.Type(), old.Len()+1, old.Len()+1)
	reflect.Copy(newSlice, old.Slice(0, i))
	newSlice.Index(i).Set(converted)
	reflect.Copy(newSlice.Slice(i+1, newSlice.Len()), old.Slice(i, old.Len()))

	n.Value.Set(newSlice)
	n.Commit()
	return nil
}

func (listAdapter) Remove(n *Node, seg pointer.Segment) error {
	if n.Value.Kind() == reflect.Array {
		return fmt.Errorf("%w: cannot remove from fixed-size %v", core.ErrNotWritable, n.Value.Type())
	}
	if err := n.checkWritable(); err != nil {
		return err
	}
	i, err := position(n, seg, false)
	if err != nil {
		return err
	}

	old := n.Value
	newLen := old.Len() - 1
	newSlice := reflect.MakeSlice(old.Type(), newLen, newLen)
	reflect.Copy(newSlice, old.Slice(0, i))
	reflect.Copy(newSlice.Slice(i, newLen), old.Slice(i+1, old.Len()))

	n.Value.Set(newSlice)
	n.Commit()
	return nil
}
