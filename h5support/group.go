package h5support

import (
	"errors"
	"fmt"
	"strings"
)

// EnsureGroup opens the group named under loc, creating it first when no
// object with that name exists. An already-existing group is never an
// error; that idempotency is the defining contract of this call. The name
// may be a slash-delimited path whose intermediate groups already exist.
func (f *File) EnsureGroup(loc Handle, name string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ensureGroup(loc, name)
}

func (f *File) ensureGroup(loc Handle, name string) (Handle, error) {
	if f.closed {
		return ClosedHandle, ErrClosed
	}
	_, err := f.classify(loc, name)
	switch {
	case err == nil:
		h, openErr := f.gw.OpenGroup(loc, name)
		if openErr != nil {
			return ClosedHandle, &OpError{Op: "open group", Path: name, Loc: loc, Err: openErr}
		}
		return h, nil
	case errors.Is(err, ErrNotFound):
		if f.readOnly {
			return ClosedHandle, fmt.Errorf("creating group %q: %w", name, ErrReadOnly)
		}
		h, createErr := f.gw.CreateGroup(loc, name)
		if createErr != nil {
			return ClosedHandle, &OpError{Op: "create group", Path: name, Loc: loc, Err: createErr}
		}
		return h, nil
	default:
		return ClosedHandle, err
	}
}

// EnsurePath materializes every group along path below loc. The path is
// normalized first, then walked left to right: each accumulated prefix is
// passed through EnsureGroup and its handle closed again before the next
// segment is processed, so no handle outlives its own step. A failing
// segment aborts the walk and surfaces that segment's error; groups created
// before the failure remain in place.
func (f *File) EnsurePath(loc Handle, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	for i := range segments {
		prefix := strings.Join(segments[:i+1], "/")
		h, err := f.ensureGroup(loc, prefix)
		if err != nil {
			return fmt.Errorf("ensuring group %q: %w", prefix, err)
		}
		if err := f.closeHandle(&h); err != nil {
			return fmt.Errorf("closing intermediate group %q: %w", prefix, err)
		}
	}
	return nil
}

// EnsureParentPath materializes the groups leading to fullPath, leaving
// the leaf itself alone. A path with no parent is a successful no-op.
func (f *File) EnsureParentPath(loc Handle, fullPath string) error {
	parent := ParentPath(fullPath)
	if parent == "" {
		return nil
	}
	return f.EnsurePath(loc, parent)
}
