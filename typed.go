package jsonpatch

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/brunoga/jsonpatch/internal/convert"
)

// TypedDocument builds a patch for a T out of typed paths. Like Document, its
// builder methods return a new value and leave the receiver unchanged.
//
// Misuse that the compiler cannot catch (a selector that does not address a
// member, or a value that does not fit the path) panics when the operation
// is built.
type TypedDocument[T any] struct {
	doc  Document
	opts []Option
}

// NewTyped returns an empty typed document. opts control how paths are
// rendered and are used again by ApplyTo.
func NewTyped[T any](opts ...Option) TypedDocument[T] {
	return TypedDocument[T]{doc: New(), opts: opts}
}

// Add appends an add operation.
func (d TypedDocument[T]) Add(path Selection[T], value any) TypedDocument[T] {
	d.checkValue(OpAdd, path, value)
	d.doc = d.doc.Add(d.render(OpAdd, path), value)
	return d
}

// Remove appends a remove operation.
func (d TypedDocument[T]) Remove(path Selection[T]) TypedDocument[T] {
	d.doc = d.doc.Remove(d.render(OpRemove, path))
	return d
}

// Replace appends a replace operation.
func (d TypedDocument[T]) Replace(path Selection[T], value any) TypedDocument[T] {
	d.checkValue(OpReplace, path, value)
	d.doc = d.doc.Replace(d.render(OpReplace, path), value)
	return d
}

// Move appends a move operation. Both paths must hold the same type.
func (d TypedDocument[T]) Move(from, path Selection[T]) TypedDocument[T] {
	d.checkTypes(OpMove, from, path)
	d.doc = d.doc.Move(d.render(OpMove, from), d.render(OpMove, path))
	return d
}

// Copy appends a copy operation. Both paths must hold the same type.
func (d TypedDocument[T]) Copy(from, path Selection[T]) TypedDocument[T] {
	d.checkTypes(OpCopy, from, path)
	d.doc = d.doc.Copy(d.render(OpCopy, from), d.render(OpCopy, path))
	return d
}

// Test appends a test operation.
func (d TypedDocument[T]) Test(path Selection[T], value any) TypedDocument[T] {
	d.checkValue(OpTest, path, value)
	d.doc = d.doc.Test(d.render(OpTest, path), value)
	return d
}

// Document returns the untyped form of d.
func (d TypedDocument[T]) Document() Document {
	return d.doc
}

// Operations returns the operations built so far.
func (d TypedDocument[T]) Operations() []Operation {
	return d.doc
}

// ApplyTo applies d to target with the options d was built with, followed by
// opts.
func (d TypedDocument[T]) ApplyTo(target *T, opts ...Option) error {
	all := make([]Option, 0, len(d.opts)+len(opts))
	all = append(all, d.opts...)
	all = append(all, opts...)
	return d.doc.ApplyTo(target, all...)
}

// MarshalJSON writes d in the same wire form as Document.
func (d TypedDocument[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.doc)
}

// UnmarshalJSON reads a patch document. Paths are not checked against T.
func (d *TypedDocument[T]) UnmarshalJSON(data []byte) error {
	return d.doc.UnmarshalJSON(data)
}

func (d TypedDocument[T]) render(op Op, path Selection[T]) string {
	s, err := path.render(newConfig(d.opts))
	if err != nil {
		panic(fmt.Sprintf("invalid %s operation: %v", op, err))
	}
	return s
}

func (d TypedDocument[T]) checkValue(op Op, path Selection[T], value any) {
	typ := path.valueType()
	if typ == nil || typ.Kind() == reflect.Interface {
		return
	}
	if value == nil {
		if !convert.Nilable(typ) {
			panic(fmt.Sprintf("invalid %s operation: nil is not a valid %v", op, typ))
		}
		return
	}
	if vt := reflect.TypeOf(value); !vt.AssignableTo(typ) {
		panic(fmt.Sprintf("invalid %s operation: %v is not assignable to %v", op, vt, typ))
	}
}

func (d TypedDocument[T]) checkTypes(op Op, from, path Selection[T]) {
	ft, pt := from.valueType(), path.valueType()
	if ft == nil || pt == nil || ft.Kind() == reflect.Interface || pt.Kind() == reflect.Interface {
		return
	}
	if !ft.AssignableTo(pt) {
		panic(fmt.Sprintf("invalid %s operation: %v is not assignable to %v", op, ft, pt))
	}
}
