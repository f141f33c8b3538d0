package h5support

import "go.uber.org/zap"

// ListChildren returns the names of loc's children in stable index order.
// With FilterAny the names come straight from the child index with no
// per-child type lookups. For any narrower filter each child is classified
// and kept only when its type intersects the filter; a child that fails to
// classify is logged and skipped, and the listing continues.
func (f *File) ListChildren(loc Handle, filter TypeFilter) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	count, err := f.gw.NumChildren(loc)
	if err != nil {
		return nil, &OpError{Op: "list children", Loc: loc, Err: err}
	}
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, err := f.readName(func(buf []byte) (int, error) {
			return f.gw.ChildNameByIndex(loc, i, buf)
		})
		if err != nil {
			return nil, &OpError{Op: "child name", Loc: loc, Err: err}
		}
		if filter == FilterAny {
			names = append(names, name)
			continue
		}
		t, err := f.classify(loc, name)
		if err != nil {
			f.log.Warn("skipping unclassifiable child",
				zap.String("name", name),
				zap.Int64("loc", int64(loc.ID)),
				zap.Error(err))
			continue
		}
		if filter.matches(t) {
			names = append(names, name)
		}
	}
	return names, nil
}

// ListAttributes returns every attribute name on node in creation order.
func (f *File) ListAttributes(node Handle) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listAttributes(node)
}

func (f *File) listAttributes(node Handle) ([]string, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if !node.Valid() {
		return nil, ErrInvalidHandle
	}
	info, err := f.gw.Info(node)
	if err != nil {
		return nil, &OpError{Op: "attribute count", Loc: node, Err: err}
	}
	names := make([]string, 0, info.NumAttrs)
	for i := 0; i < info.NumAttrs; i++ {
		name, err := f.readName(func(buf []byte) (int, error) {
			return f.gw.AttributeNameByIndex(node, i, buf)
		})
		if err != nil {
			return nil, &OpError{Op: "attribute name", Loc: node, Err: err}
		}
		names = append(names, name)
	}
	return names, nil
}

// ListObjectAttributes opens the object named under loc, lists its
// attribute names, and closes it again.
func (f *File) ListObjectAttributes(loc Handle, name string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, err := f.openObject(loc, name)
	if err != nil {
		return nil, err
	}
	names, err := f.listAttributes(h)
	if closeErr := f.closeHandle(&h); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ProbeAttribute reports whether node carries an attribute with the given
// name. Any failure, including a transient gateway error, reads as absent.
// This collapsing of "missing" and "failed" is deliberate and confined to
// this single entry point; everywhere else errors propagate.
func (f *File) ProbeAttribute(node Handle, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	h, err := f.gw.OpenAttribute(node, name)
	if err != nil {
		return false
	}
	_ = f.gw.CloseAttribute(h)
	return true
}
