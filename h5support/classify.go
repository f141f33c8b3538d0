package h5support

import (
	"errors"
	"fmt"
)

// Classify reports the type of the object reached by name under loc.
// Absence is returned as ErrNotFound rather than a hard failure, so
// existence checks and idempotent creation can branch on it with errors.Is.
func (f *File) Classify(loc Handle, name string) (NodeType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classify(loc, name)
}

func (f *File) classify(loc Handle, name string) (NodeType, error) {
	if f.closed {
		return NodeOther, ErrClosed
	}
	info, err := f.gw.InfoByName(loc, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NodeOther, ErrNotFound
		}
		return NodeOther, &OpError{Op: "classify", Path: name, Loc: loc, Err: err}
	}
	return info.Type, nil
}

// ObjectExists reports whether loc has an object with the given name,
// whatever its type.
func (f *File) ObjectExists(loc Handle, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	ok, err := f.gw.ExistsByName(loc, name)
	return err == nil && ok
}

// IsGroup reports whether the object named under loc classifies as a
// group. A classification failure reads as false.
func (f *File) IsGroup(loc Handle, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.classify(loc, name)
	return err == nil && t == NodeGroup
}

// OpenObject classifies the object named under loc and opens it through
// the primitive matching its type. A type none of the primitives can
// handle is a hard error.
func (f *File) OpenObject(loc Handle, name string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openObject(loc, name)
}

func (f *File) openObject(loc Handle, name string) (Handle, error) {
	t, err := f.classify(loc, name)
	if err != nil {
		return ClosedHandle, err
	}
	var h Handle
	switch t {
	case NodeGroup:
		h, err = f.gw.OpenGroup(loc, name)
	case NodeDataset:
		h, err = f.gw.OpenDataset(loc, name)
	case NodeNamedDatatype:
		h, err = f.gw.OpenDatatype(loc, name)
	default:
		return ClosedHandle, &OpError{Op: "open", Path: name, Loc: loc,
			Err: fmt.Errorf("%w: cannot open a node of type %s", ErrTypeMismatch, t)}
	}
	if err != nil {
		return ClosedHandle, &OpError{Op: "open", Path: name, Loc: loc, Err: err}
	}
	return h, nil
}
