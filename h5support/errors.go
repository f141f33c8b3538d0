// Package h5support provides namespace-management and resource-lifecycle
// conveniences for hierarchical container files: resolving slash-delimited
// paths, idempotently materializing group hierarchies, classifying and
// enumerating objects, and tracking every opened handle so none leaks when
// the owning file closes.
//
// The physical container format is abstracted behind the Gateway interface;
// this package never touches bytes on disk.
package h5support

import "errors"

// Common errors
var (
	ErrNotFound      = errors.New("object not found")
	ErrInvalidHandle = errors.New("invalid handle")
	ErrTypeMismatch  = errors.New("unexpected object type")
	ErrInvalidPath   = errors.New("invalid path")
	ErrClosed        = errors.New("file is closed")
	ErrReadOnly      = errors.New("file is read-only")
	ErrVersionBounds = errors.New("file version outside supported bounds")
)

// OpError carries an underlying gateway failure together with the operation
// name, the path or name involved, and the location handle it ran against.
type OpError struct {
	Op   string
	Path string
	Loc  Handle
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }
