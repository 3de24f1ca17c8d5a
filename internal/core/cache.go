package core

import (
	"reflect"
	"sort"
	"sync"
)

// FieldInfo describes one member of a struct as seen by the patch engine.
// Members promoted from anonymous embedded structs are flattened into their
// container, the same way encoding/json does it.
type FieldInfo struct {
	Index []int
	Field reflect.StructField
	Depth int
	Tag   StructTag
}

type TypeInfo struct {
	Fields []FieldInfo
}

var (
	typeCache sync.Map // map[reflect.Type]*TypeInfo
)

// GetTypeInfo returns the cached member list for typ, shallowest members
// first.
func GetTypeInfo(typ reflect.Type) *TypeInfo {
	if info, ok := typeCache.Load(typ); ok {
		return info.(*TypeInfo)
	}

	info := &TypeInfo{}
	if typ.Kind() == reflect.Struct {
		seen := map[reflect.Type]bool{typ: true}
		collectFields(typ, nil, 0, seen, &info.Fields)
		sort.SliceStable(info.Fields, func(i, j int) bool {
			return info.Fields[i].Depth < info.Fields[j].Depth
		})
	}

	actual, _ := typeCache.LoadOrStore(typ, info)
	return actual.(*TypeInfo)
}

func collectFields(typ reflect.Type, index []int, depth int,
	seen map[reflect.Type]bool, out *[]FieldInfo) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := ParseTag(field)
		if tag.Ignore {
			continue
		}

		name, hidden := JSONName(field)
		if hidden {
			continue
		}

		fieldIndex := make([]int, len(index)+1)
		copy(fieldIndex, index)
		fieldIndex[len(index)] = i

		if field.Anonymous && name == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if !seen[embedded] {
					seen[embedded] = true
					collectFields(embedded, fieldIndex, depth+1, seen, out)
					delete(seen, embedded)
				}
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		*out = append(*out, FieldInfo{
			Index: fieldIndex,
			Field: field,
			Depth: depth,
			Tag:   tag,
		})
	}
}
