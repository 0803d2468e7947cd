package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural edits
var (
	// ErrPathNotFound indicates that a path does not resolve against the current tree.
	ErrPathNotFound = errors.New("path not found")

	// ErrNotAContainer indicates that an object or array was required but a scalar was found.
	ErrNotAContainer = errors.New("not a container")

	// ErrDuplicateKey indicates that the key already exists in the target object.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrEmptyKey indicates that an object key was empty.
	ErrEmptyKey = errors.New("empty key")

	// ErrCannotDeleteRoot indicates a delete with the empty path.
	ErrCannotDeleteRoot = errors.New("cannot delete root")

	// ErrNestedMultiDoc indicates an attempt to place a document stream below the root.
	ErrNestedMultiDoc = errors.New("multi-document stream must be the root")

	// ErrInvalidPath indicates path text that cannot be parsed.
	ErrInvalidPath = errors.New("invalid path")
)

// EditError reports which precondition an operation violated and where
type EditError struct {
	Op     string
	Path   Path
	Err    error
	Detail string
}

func (e *EditError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %v: %s", e.Op, e.Path, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

func editError(op string, p Path, err error, detail string) error {
	return &EditError{Op: op, Path: p.Clone(), Err: err, Detail: detail}
}
