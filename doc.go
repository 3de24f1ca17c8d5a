// Package jsonpatch applies RFC 6902 JSON Patch documents directly to Go
// values.
//
// A patch is resolved against the target through reflection: structs are
// addressed by member name, slices and arrays by index and maps by key.
// Values carried by operations are coerced to the type of the location they
// are written to, so a document decoded from JSON can be applied to a typed
// struct:
//
//	doc, err := jsonpatch.DecodeBytes(body)
//	if err != nil {
//		return err
//	}
//	if err := jsonpatch.ApplyAtomic(doc, &car); err != nil {
//		http.Error(w, err.Error(), jsonpatch.StatusCode(err))
//		return
//	}
//
// Patches can also be built with typed paths:
//
//	model := jsonpatch.Field(func(c *Car) *string { return &c.Engine.Model })
//	doc := jsonpatch.NewTyped[Car]().Replace(model, "V8")
//
// Struct members tagged `jsonpatch:"readonly"` can be read and copied from
// but not modified, and neither can anything below them. Members tagged
// `jsonpatch:"-"` are invisible to patches.
package jsonpatch
