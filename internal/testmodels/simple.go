package testmodels

// Simple is a flat record with one member of each common scalar kind.
type Simple struct {
	StringProperty  string
	AnotherString   string `json:"anothername"`
	IntegerValue    int
	DoubleValue     float64
	BooleanValue    bool
	NullableInteger *int
	Integers        []int
	Strings         []string
	Anything        any
}

// Nested holds records inside records, lists and maps.
type Nested struct {
	NestedInt  int
	Simple     Simple
	SimpleList []Simple
	SimpleMap  map[string]Simple
	Dynamic    map[string]any
	Optional   *Simple
}

// Audited flattens an embedded struct, and guards part of its state.
type Audited struct {
	Metadata
	Value   string
	History []string `jsonpatch:"readonly"`
	Cached  string   `jsonpatch:"-"`
}

type Metadata struct {
	Version int
	Owner   string `json:"owner_name"`
}
