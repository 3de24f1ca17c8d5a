package jsonpatch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/brunoga/jsonpatch/internal/core"
)

// Failure categories. Every error returned by this package wraps one of them
// and can be tested with errors.Is.
var (
	// ErrPathNotFound means a pointer segment matched no member, key or
	// index.
	ErrPathNotFound = core.ErrPathNotFound
	// ErrInvalidPosition means a list index was negative or out of bounds
	// for the operation.
	ErrInvalidPosition = core.ErrInvalidPosition
	// ErrTypeMismatch means a value could not be coerced to the type of the
	// location it was written to.
	ErrTypeMismatch = core.ErrTypeMismatch
	// ErrNotWritable means the location exists but cannot be modified.
	ErrNotWritable = core.ErrNotWritable
	// ErrMalformedDocument means a patch document or operation is
	// structurally invalid.
	ErrMalformedDocument = core.ErrMalformedDocument
	// ErrUnsupportedOperation is returned for the "test" operation.
	ErrUnsupportedOperation = core.ErrUnsupportedOperation
	// ErrInvalidTarget means the value handed to Apply cannot be patched in
	// place.
	ErrInvalidTarget = core.ErrInvalidTarget
)

// PatchError reports the operation that stopped a patch. Operations before
// it have already been applied to the target.
type PatchError struct {
	// Operation is the failed operation and Index its position in the
	// document.
	Operation Operation
	Index     int

	// Affected is the root value the patch was being applied to.
	Affected any

	Message string

	// Status is the HTTP status code a server should answer with.
	Status int

	Err error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("jsonpatch: operation %d (%s %s): %s",
		e.Index, e.Operation.Op, e.Operation.Path, e.Message)
}

func (e *PatchError) Unwrap() error {
	return e.Err
}

func newPatchError(op Operation, index int, affected any, err error) *PatchError {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, ErrMalformedDocument) {
		status = http.StatusBadRequest
	}
	return &PatchError{
		Operation: op,
		Index:     index,
		Affected:  affected,
		Message:   err.Error(),
		Status:    status,
		Err:       err,
	}
}

// StatusCode suggests the HTTP status code for an error returned by this
// package: the PatchError status, 400 for malformed documents and 500 for
// anything else.
func StatusCode(err error) int {
	var pe *PatchError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &pe):
		return pe.Status
	case errors.Is(err, ErrMalformedDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
