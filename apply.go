package jsonpatch

import (
	"fmt"
	"reflect"

	"github.com/huandu/go-clone"
	"github.com/sirupsen/logrus"

	"github.com/brunoga/jsonpatch/internal/adapter"
	"github.com/brunoga/jsonpatch/internal/convert"
	"github.com/brunoga/jsonpatch/internal/pointer"
)

// Apply applies doc to target, which must be a non-nil pointer or a non-nil
// map. Operations run in order and the first failure stops the patch with a
// *PatchError; operations before it stay applied. Use ApplyAtomic when that
// is not acceptable.
func Apply(doc Document, target any, opts ...Option) error {
	return doc.ApplyTo(target, opts...)
}

// ApplyTo applies d to target. See Apply.
func (d Document) ApplyTo(target any, opts ...Option) error {
	cfg := newConfig(opts)

	root, err := adapter.Root(target)
	if err != nil {
		return fmt.Errorf("jsonpatch: %w", err)
	}

	e := &executor{
		visitor: adapter.NewVisitor(cfg.names),
		root:    root,
	}

	for i, op := range d {
		log := cfg.logger.WithFields(logrus.Fields{
			"index": i,
			"op":    op.Op,
			"path":  op.Path,
		})

		if err := e.apply(op); err != nil {
			pe := newPatchError(op, i, target, err)
			log.WithError(err).Warn("Patch operation failed")
			if cfg.reporter != nil {
				cfg.reporter(pe)
			}
			return pe
		}

		log.Debug("Applied patch operation")
	}
	return nil
}

type executor struct {
	visitor *adapter.Visitor
	root    *adapter.Node
}

func (e *executor) apply(op Operation) error {
	if err := op.Validate(); err != nil {
		return err
	}

	path := pointer.MustParse(op.Path)
	switch op.Op {
	case OpAdd:
		return e.add(path, op.Value)
	case OpRemove:
		return e.remove(path)
	case OpReplace:
		return e.replace(path, op.Value)
	case OpMove:
		return e.move(pointer.MustParse(op.From), path)
	case OpCopy:
		return e.copy(pointer.MustParse(op.From), path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOperation, op.Op)
	}
}

func (e *executor) add(p pointer.Pointer, value any) error {
	if p.IsRoot() {
		return e.setRoot(value)
	}

	n, a, last, err := e.visitor.Resolve(e.root, p)
	if err != nil {
		return err
	}
	if err := a.Add(n, last, value); err != nil {
		return fmt.Errorf("at %q: %w", p.String(), err)
	}
	return nil
}

func (e *executor) remove(p pointer.Pointer) error {
	if p.IsRoot() {
		return e.root.Replace(reflect.Zero(e.root.Value.Type()))
	}

	n, a, last, err := e.visitor.Resolve(e.root, p)
	if err != nil {
		return err
	}
	if err := a.Remove(n, last); err != nil {
		return fmt.Errorf("at %q: %w", p.String(), err)
	}
	return nil
}

func (e *executor) replace(p pointer.Pointer, value any) error {
	if p.IsRoot() {
		return e.setRoot(value)
	}

	n, a, last, err := e.visitor.Resolve(e.root, p)
	if err != nil {
		return err
	}
	if err := a.Set(n, last, value); err != nil {
		return fmt.Errorf("at %q: %w", p.String(), err)
	}
	return nil
}

func (e *executor) setRoot(value any) error {
	v, err := convert.To(value, e.root.Value.Type(), e.root.Value)
	if err != nil {
		return fmt.Errorf("at %q: %w", "", err)
	}
	return e.root.Replace(v)
}

// get returns the value at p, detached from the target so a later removal of
// p does not change it.
func (e *executor) get(p pointer.Pointer) (any, error) {
	v, err := e.visitor.Get(e.root, p)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

func (e *executor) move(from, to pointer.Pointer) error {
	// Member names match case-insensitively, so compare the spellings the
	// resolver would produce.
	cfrom := e.visitor.Canonical(e.root, from)
	cto := e.visitor.Canonical(e.root, to)
	if cto.HasPrefix(cfrom) && len(cto) > len(cfrom) {
		return fmt.Errorf("%w: cannot move %q into its own child %q", ErrInvalidPosition, from.String(), to.String())
	}

	value, err := e.get(from)
	if err != nil {
		return err
	}
	if cfrom.String() == cto.String() {
		return nil
	}

	if err := e.remove(from); err != nil {
		return err
	}
	return e.add(to, value)
}

func (e *executor) copy(from, to pointer.Pointer) error {
	value, err := e.get(from)
	if err != nil {
		return err
	}
	if value != nil {
		value = clone.Clone(value)
	}
	return e.add(to, value)
}
