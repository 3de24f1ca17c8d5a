package core

import "errors"

// Failure categories shared by the resolver, the adapters and the executor.
// They are re-exported by the jsonpatch package.
var (
	ErrPathNotFound         = errors.New("path not found")
	ErrInvalidPosition      = errors.New("invalid position")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrNotWritable          = errors.New("not writable")
	ErrMalformedDocument    = errors.New("malformed patch document")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidTarget        = errors.New("invalid target")
)
