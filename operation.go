package jsonpatch

import (
	"encoding/json"
	"fmt"

	"github.com/brunoga/jsonpatch/internal/pointer"
)

// Op is an RFC 6902 operation verb.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpMove    Op = "move"
	OpCopy    Op = "copy"
	OpTest    Op = "test"
)

func (o Op) known() bool {
	switch o {
	case OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest:
		return true
	}
	return false
}

// takesFrom reports whether the verb reads a source location.
func (o Op) takesFrom() bool {
	return o == OpMove || o == OpCopy
}

// takesValue reports whether the verb carries a value.
func (o Op) takesValue() bool {
	return o == OpAdd || o == OpReplace || o == OpTest
}

// Operation is a single patch instruction. From is only meaningful for move
// and copy, Value only for add, replace and test.
type Operation struct {
	Op    Op     `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

func (o Operation) String() string {
	if o.Op.takesFrom() {
		return fmt.Sprintf("%s %s -> %s", o.Op, o.From, o.Path)
	}
	return fmt.Sprintf("%s %s", o.Op, o.Path)
}

// Validate checks the operation without looking at any target.
func (o Operation) Validate() error {
	if !o.Op.known() {
		return fmt.Errorf("%w: unknown operation %q", ErrMalformedDocument, o.Op)
	}
	if _, err := pointer.Parse(o.Path); err != nil {
		return fmt.Errorf("%w: path: %v", ErrMalformedDocument, err)
	}
	if o.Op.takesFrom() {
		if _, err := pointer.Parse(o.From); err != nil {
			return fmt.Errorf("%w: from: %v", ErrMalformedDocument, err)
		}
	} else if o.From != "" {
		return fmt.Errorf("%w: %s does not take a from location", ErrMalformedDocument, o.Op)
	}
	if !o.Op.takesValue() && o.Value != nil {
		return fmt.Errorf("%w: %s does not take a value", ErrMalformedDocument, o.Op)
	}
	return nil
}

// MarshalJSON writes from only for move and copy, and value (null included)
// only for add, replace and test.
func (o Operation) MarshalJSON() ([]byte, error) {
	type wire struct {
		Op    Op      `json:"op"`
		Path  string  `json:"path"`
		From  *string `json:"from,omitempty"`
		Value *any    `json:"value,omitempty"`
	}
	w := wire{Op: o.Op, Path: o.Path}
	if o.Op.takesFrom() {
		from := o.From
		w.From = &from
	}
	if o.Op.takesValue() {
		value := o.Value
		w.Value = &value
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a single operation object. Members required by the
// verb must be present and members the verb does not take are rejected.
// Unrecognized members are ignored.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: operation must be an object", ErrMalformedDocument)
	}

	var op Operation
	if err := decodeMember(raw, "op", &op.Op); err != nil {
		return err
	}
	if !op.Op.known() {
		return fmt.Errorf("%w: unknown operation %q", ErrMalformedDocument, op.Op)
	}
	if err := decodeMember(raw, "path", &op.Path); err != nil {
		return err
	}

	_, hasFrom := raw["from"]
	switch {
	case op.Op.takesFrom():
		if err := decodeMember(raw, "from", &op.From); err != nil {
			return err
		}
	case hasFrom:
		return fmt.Errorf("%w: %s does not take a from location", ErrMalformedDocument, op.Op)
	}

	_, hasValue := raw["value"]
	switch {
	case op.Op.takesValue():
		if err := decodeMember(raw, "value", &op.Value); err != nil {
			return err
		}
	case hasValue:
		return fmt.Errorf("%w: %s does not take a value", ErrMalformedDocument, op.Op)
	}

	if err := op.Validate(); err != nil {
		return err
	}
	*o = op
	return nil
}

func decodeMember(raw map[string]json.RawMessage, name string, dst any) error {
	data, ok := raw[name]
	if !ok {
		return fmt.Errorf("%w: missing %q member", ErrMalformedDocument, name)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: member %q: %v", ErrMalformedDocument, name, err)
	}
	return nil
}
