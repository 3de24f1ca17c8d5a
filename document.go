package jsonpatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/huandu/go-clone"
	"github.com/mitchellh/copystructure"
)

// Document is an ordered list of operations. The builder methods return a new
// document and never modify the receiver.
type Document []Operation

// New returns an empty document.
func New() Document {
	return Document{}
}

// Add appends an add operation. The value is deep copied so later changes to
// it do not leak into the document.
func (d Document) Add(path string, value any) Document {
	return d.with(Operation{Op: OpAdd, Path: path, Value: snapshot(value)})
}

// Remove appends a remove operation.
func (d Document) Remove(path string) Document {
	return d.with(Operation{Op: OpRemove, Path: path})
}

// Replace appends a replace operation.
func (d Document) Replace(path string, value any) Document {
	return d.with(Operation{Op: OpReplace, Path: path, Value: snapshot(value)})
}

// Move appends a move operation.
func (d Document) Move(from, path string) Document {
	return d.with(Operation{Op: OpMove, From: from, Path: path})
}

// Copy appends a copy operation.
func (d Document) Copy(from, path string) Document {
	return d.with(Operation{Op: OpCopy, From: from, Path: path})
}

// Test appends a test operation. Applying it always fails with
// ErrUnsupportedOperation.
func (d Document) Test(path string, value any) Document {
	return d.with(Operation{Op: OpTest, Path: path, Value: snapshot(value)})
}

func (d Document) with(op Operation) Document {
	out := make(Document, len(d), len(d)+1)
	copy(out, d)
	return append(out, op)
}

// snapshot deep copies a builder value. copystructure only sees exported
// struct fields, so it is limited to dynamic map and slice trees.
func snapshot(value any) any {
	if value == nil {
		return nil
	}
	if dynamic(reflect.TypeOf(value)) {
		if c, err := copystructure.Copy(value); err == nil {
			return c
		}
	}
	return clone.Clone(value)
}

func dynamic(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map:
		return t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.Interface
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Interface
	}
	return false
}

// Validate checks every operation and reports all problems at once.
func (d Document) Validate() error {
	var result *multierror.Error
	for i, op := range d {
		if err := op.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("operation %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}

// MarshalJSON writes the document as a bare JSON array.
func (d Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Operation(d))
}

// UnmarshalJSON accepts only a bare JSON array of operations.
func (d *Document) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("%w: patch document must be a JSON array", ErrMalformedDocument)
	}
	var ops []Operation
	if err := json.Unmarshal(trimmed, &ops); err != nil {
		if !errors.Is(err, ErrMalformedDocument) {
			err = fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return err
	}
	if ops == nil {
		ops = []Operation{}
	}
	*d = ops
	return nil
}

// Decode reads a patch document from r.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte) (Document, error) {
	return Decode(bytes.NewReader(data))
}
