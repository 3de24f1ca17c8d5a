package jsonpatch

import (
	"github.com/huandu/go-clone"
)

// ApplyAtomic applies doc to a deep copy of *target and only stores the
// result back when every operation succeeds. On failure *target is left
// untouched.
func ApplyAtomic[T any](doc Document, target *T, opts ...Option) error {
	if target == nil {
		return Apply(doc, target, opts...)
	}

	work := new(T)
	if v := any(*target); v != nil {
		*work = clone.Clone(v).(T)
	}

	if err := doc.ApplyTo(work, opts...); err != nil {
		return err
	}
	*target = *work
	return nil
}
