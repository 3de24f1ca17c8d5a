package adapter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunoga/jsonpatch/internal/core"
	"github.com/brunoga/jsonpatch/internal/pointer"
)

type Engine struct {
	Capacity int
	Tags     []string
}

type Base struct {
	ID int
}

type Car struct {
	Base
	Brand    string `json:"make"`
	Engine   Engine
	Spare    *Engine
	Serial   string `jsonpatch:"readonly"`
	Parts    map[string]Engine
	Extras   map[string]any
	Slots    [2]int
	Payload  []byte
	Anything any
}

// edit resolves path against target and runs fn on the last segment.
func edit(t *testing.T, target any, path string, fn func(Adapter, *Node, pointer.Segment) error) error {
	t.Helper()

	root, err := Root(target)
	require.NoError(t, err)

	n, a, last, err := NewVisitor(nil).Resolve(root, pointer.MustParse(path))
	if err != nil {
		return err
	}
	return fn(a, n, last)
}

func add(t *testing.T, target any, path string, value any) error {
	return edit(t, target, path, func(a Adapter, n *Node, s pointer.Segment) error { return a.Add(n, s, value) })
}

func set(t *testing.T, target any, path string, value any) error {
	return edit(t, target, path, func(a Adapter, n *Node, s pointer.Segment) error { return a.Set(n, s, value) })
}

func remove(t *testing.T, target any, path string) error {
	return edit(t, target, path, func(a Adapter, n *Node, s pointer.Segment) error { return a.Remove(n, s) })
}

func get(t *testing.T, target any, path string) (any, error) {
	t.Helper()

	root, err := Root(target)
	require.NoError(t, err)

	v, err := NewVisitor(nil).Get(root, pointer.MustParse(path))
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func TestRoot(t *testing.T) {
	_, err := Root(nil)
	assert.ErrorIs(t, err, core.ErrInvalidTarget)

	_, err = Root((*Car)(nil))
	assert.ErrorIs(t, err, core.ErrInvalidTarget)

	_, err = Root(Car{})
	assert.ErrorIs(t, err, core.ErrInvalidTarget)

	_, err = Root(map[string]any(nil))
	assert.ErrorIs(t, err, core.ErrInvalidTarget)

	n, err := Root(map[string]any{})
	require.NoError(t, err)
	assert.ErrorIs(t, n.Replace(reflect.ValueOf(map[string]any{"a": 1})), core.ErrNotWritable)
}

func TestRecord(t *testing.T) {
	car := &Car{Brand: "volvo", Serial: "S1", Engine: Engine{Capacity: 2000}}

	// Case-insensitive, json tag names, embedded members flattened.
	v, err := get(t, car, "/MAKE")
	require.NoError(t, err)
	assert.Equal(t, "volvo", v)

	_, err = get(t, car, "/brand")
	assert.ErrorIs(t, err, core.ErrPathNotFound)

	require.NoError(t, add(t, car, "/id", 7.0))
	assert.Equal(t, 7, car.ID)

	require.NoError(t, set(t, car, "/engine/capacity", 1600))
	assert.Equal(t, 1600, car.Engine.Capacity)

	require.NoError(t, remove(t, car, "/engine"))
	assert.Equal(t, Engine{}, car.Engine)

	// Read-only members can be read but not written.
	v, err = get(t, car, "/serial")
	require.NoError(t, err)
	assert.Equal(t, "S1", v)
	assert.ErrorIs(t, set(t, car, "/serial", "S2"), core.ErrNotWritable)
	assert.ErrorIs(t, remove(t, car, "/serial"), core.ErrNotWritable)

	// Type mismatch.
	assert.ErrorIs(t, add(t, car, "/id", "seven"), core.ErrTypeMismatch)
	assert.ErrorIs(t, add(t, car, "/id", 1.5), core.ErrTypeMismatch)
	assert.ErrorIs(t, add(t, car, "/id", nil), core.ErrTypeMismatch)

	// Negative segments never fall back to a member lookup.
	assert.ErrorIs(t, add(t, car, "/-1", 1), core.ErrPathNotFound)
}

func TestRecord_NilPointer(t *testing.T) {
	car := &Car{}

	err := add(t, car, "/spare/capacity", 1)
	assert.ErrorIs(t, err, core.ErrPathNotFound)

	require.NoError(t, add(t, car, "/spare", map[string]any{"Capacity": 900.0}))
	require.NotNil(t, car.Spare)
	assert.Equal(t, 900, car.Spare.Capacity)

	require.NoError(t, add(t, car, "/spare/capacity", 1))
	assert.Equal(t, 1, car.Spare.Capacity)

	require.NoError(t, remove(t, car, "/spare"))
	assert.Nil(t, car.Spare)
}

type Outer struct {
	*Base
	Name string
}

func TestRecord_NilEmbeddedPointer(t *testing.T) {
	o := &Outer{}

	v, err := get(t, o, "/id")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, remove(t, o, "/id"))
	assert.Nil(t, o.Base)

	require.NoError(t, add(t, o, "/id", 3))
	require.NotNil(t, o.Base)
	assert.Equal(t, 3, o.ID)
}

func TestList(t *testing.T) {
	car := &Car{Engine: Engine{Tags: []string{"a", "b"}}}

	require.NoError(t, add(t, car, "/engine/tags/0", "x"))
	assert.Equal(t, []string{"x", "a", "b"}, car.Engine.Tags)

	require.NoError(t, add(t, car, "/engine/tags/-", "y"))
	assert.Equal(t, []string{"x", "a", "b", "y"}, car.Engine.Tags)

	require.NoError(t, add(t, car, "/engine/tags/4", "z"))
	assert.Equal(t, []string{"x", "a", "b", "y", "z"}, car.Engine.Tags)

	assert.ErrorIs(t, add(t, car, "/engine/tags/6", "w"), core.ErrInvalidPosition)
	assert.ErrorIs(t, add(t, car, "/engine/tags/-1", "w"), core.ErrInvalidPosition)
	assert.ErrorIs(t, add(t, car, "/engine/tags/first", "w"), core.ErrPathNotFound)

	v, err := get(t, car, "/engine/tags/-")
	require.NoError(t, err)
	assert.Equal(t, "z", v)

	require.NoError(t, set(t, car, "/engine/tags/1", "A"))
	assert.Equal(t, []string{"x", "A", "b", "y", "z"}, car.Engine.Tags)
	assert.ErrorIs(t, set(t, car, "/engine/tags/5", "A"), core.ErrInvalidPosition)

	require.NoError(t, remove(t, car, "/engine/tags/-"))
	require.NoError(t, remove(t, car, "/engine/tags/0"))
	assert.Equal(t, []string{"A", "b", "y"}, car.Engine.Tags)
	assert.ErrorIs(t, remove(t, car, "/engine/tags/3"), core.ErrInvalidPosition)
}

func TestList_Empty(t *testing.T) {
	car := &Car{}

	assert.ErrorIs(t, remove(t, car, "/engine/tags/-"), core.ErrInvalidPosition)
	_, err := get(t, car, "/engine/tags/-")
	assert.ErrorIs(t, err, core.ErrInvalidPosition)

	require.NoError(t, add(t, car, "/engine/tags/-", "first"))
	assert.Equal(t, []string{"first"}, car.Engine.Tags)
}

func TestList_Array(t *testing.T) {
	car := &Car{Slots: [2]int{1, 2}}

	require.NoError(t, set(t, car, "/slots/1", 5))
	assert.Equal(t, [2]int{1, 5}, car.Slots)

	assert.ErrorIs(t, add(t, car, "/slots/0", 5), core.ErrNotWritable)
	assert.ErrorIs(t, remove(t, car, "/slots/0"), core.ErrNotWritable)
}

func TestBytesAreScalars(t *testing.T) {
	car := &Car{Payload: []byte("hi")}

	err := add(t, car, "/payload/0", 1)
	assert.ErrorIs(t, err, core.ErrPathNotFound)

	require.NoError(t, add(t, car, "/payload", "aGVsbG8="))
	assert.Equal(t, []byte("hello"), car.Payload)
}

func TestMap(t *testing.T) {
	car := &Car{Parts: map[string]Engine{"front": {Capacity: 1}}}

	// Struct values inside maps are written back after the edit.
	require.NoError(t, set(t, car, "/parts/front/capacity", 2))
	assert.Equal(t, 2, car.Parts["front"].Capacity)

	require.NoError(t, add(t, car, "/parts/front/tags/-", "t"))
	assert.Equal(t, []string{"t"}, car.Parts["front"].Tags)

	// Keys are case-sensitive and verbatim.
	_, err := get(t, car, "/parts/Front")
	assert.ErrorIs(t, err, core.ErrPathNotFound)

	require.NoError(t, add(t, car, "/parts/rear", map[string]any{"Capacity": 3}))
	assert.Equal(t, 3, car.Parts["rear"].Capacity)

	assert.ErrorIs(t, set(t, car, "/parts/middle", map[string]any{}), core.ErrPathNotFound)
	assert.ErrorIs(t, remove(t, car, "/parts/middle"), core.ErrPathNotFound)

	require.NoError(t, remove(t, car, "/parts/rear"))
	assert.Len(t, car.Parts, 1)

	// Nil maps are allocated on insert.
	require.NoError(t, add(t, car, "/extras/a~1b", "c"))
	assert.Equal(t, map[string]any{"a/b": "c"}, car.Extras)
}

func TestMap_TypedKeys(t *testing.T) {
	m := map[int]string{1: "one"}

	v, err := get(t, m, "/1")
	require.NoError(t, err)
	assert.Equal(t, "one", v)

	require.NoError(t, add(t, m, "/2", "two"))
	assert.Equal(t, "two", m[2])

	assert.ErrorIs(t, add(t, m, "/x", "two"), core.ErrPathNotFound)
}

func TestDynamic(t *testing.T) {
	doc := map[string]any{
		"list": []any{1.0, map[string]any{"k": "v"}},
		"obj":  map[string]any{"n": []any{}},
	}

	// Slices held in interfaces inside maps are written back.
	require.NoError(t, add(t, doc, "/list/-", "x"))
	assert.Equal(t, []any{1.0, map[string]any{"k": "v"}, "x"}, doc["list"])

	require.NoError(t, add(t, doc, "/obj/n/0", true))
	assert.Equal(t, []any{true}, doc["obj"].(map[string]any)["n"])

	require.NoError(t, set(t, doc, "/list/1/k", "w"))
	assert.Equal(t, "w", doc["list"].([]any)[1].(map[string]any)["k"])

	require.NoError(t, remove(t, doc, "/list/0"))
	assert.Len(t, doc["list"], 2)

	_, err := get(t, doc, "/list/0/k/deeper")
	assert.ErrorIs(t, err, core.ErrPathNotFound)

	var pe error = err
	assert.True(t, errors.Is(pe, core.ErrPathNotFound))
}

func TestInterfaceMember(t *testing.T) {
	car := &Car{Anything: []any{1.0}}

	require.NoError(t, add(t, car, "/anything/-", 2.0))
	assert.Equal(t, []any{1.0, 2.0}, car.Anything)

	// The current dynamic type is kept on Set when the value converts.
	car.Anything = map[string]int{"a": 1}
	require.NoError(t, set(t, car, "/anything", map[string]any{"b": 2.0}))
	assert.Equal(t, map[string]int{"b": 2}, car.Anything)
}

func TestReadOnlySubtree(t *testing.T) {
	type Locked struct {
		Engine Engine `jsonpatch:"readonly"`
	}
	l := &Locked{Engine: Engine{Tags: []string{"a"}}}

	assert.ErrorIs(t, add(t, l, "/engine/capacity", 1), core.ErrNotWritable)
	assert.ErrorIs(t, add(t, l, "/engine/tags/-", "b"), core.ErrNotWritable)

	v, err := get(t, l, "/engine/tags/0")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestCanonical(t *testing.T) {
	car := &Car{
		Engine: Engine{Tags: []string{"a"}},
		Extras: map[string]any{"Mixed": map[string]any{}},
	}
	hosts := map[int]string{1: "one"}

	tests := []struct {
		name   string
		target any
		path   string
		want   string
	}{
		{"member case", car, "/ENGINE/tags/0", "/Engine/Tags/0"},
		{"json tag name", car, "/MAKE", "/make"},
		{"embedded member", car, "/id", "/ID"},
		{"map keys kept verbatim", car, "/extras/Mixed/X", "/Extras/Mixed/X"},
		{"stops at missing key", car, "/parts/x/capacity", "/Parts/x/capacity"},
		{"unknown member", car, "/nothing/tags", "/nothing/tags"},
		{"typed map key", hosts, "/+1", "/1"},
		{"root", car, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Root(tt.target)
			require.NoError(t, err)

			got := NewVisitor(nil).Canonical(root, pointer.MustParse(tt.path))
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.Equal(t, []string{"a"}, car.Engine.Tags)
}
