package h5support

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// File is an open container and the owner of every handle opened through
// it. Each public method holds the file's lock for the full duration of the
// call, serializing access to the non-reentrant gateway underneath. The
// lock is per file unless WithLock injects a shared one.
type File struct {
	gw       Gateway
	mu       sync.Locker
	log      *zap.Logger
	path     string
	handle   Handle
	readOnly bool
	closed   bool
}

// Open opens the container at path read-only.
func Open(gw Gateway, path string, opts ...Option) (*File, error) {
	return openFile(gw, path, true, opts)
}

// OpenReadWrite opens the container at path for reading and writing. The
// configured version bounds are negotiated before the open, so a file is
// never silently upgraded past what the caller supports.
func OpenReadWrite(gw Gateway, path string, opts ...Option) (*File, error) {
	return openFile(gw, path, false, opts)
}

func openFile(gw Gateway, path string, readOnly bool, opts []Option) (*File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	h, err := gw.OpenContainer(path, readOnly, o.bounds)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionBounds) {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return nil, &OpError{Op: "open file", Path: path, Err: err}
	}
	return &File{
		gw:       gw,
		mu:       o.lock,
		log:      o.logger,
		path:     path,
		handle:   h,
		readOnly: readOnly,
	}, nil
}

// Create creates the container at path, truncating any existing file, and
// opens it read-write under the configured version bounds.
func Create(gw Gateway, path string, opts ...Option) (*File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	h, err := gw.CreateContainer(path, o.bounds)
	if err != nil {
		return nil, &OpError{Op: "create file", Path: path, Err: err}
	}
	return &File{
		gw:     gw,
		mu:     o.lock,
		log:    o.logger,
		path:   path,
		handle: h,
	}, nil
}

// Handle returns the file's own handle, usable as the location argument of
// every namespace operation. It stays owned by the File; close the file
// through Close, not CloseHandle.
func (f *File) Handle() Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle
}

// Path returns the container path the file was opened with.
func (f *File) Path() string {
	return f.path
}

// ReadOnly reports whether the file was opened without write access.
func (f *File) ReadOnly() bool {
	return f.readOnly
}

// Close closes the file. Any descendant handle still open is first
// resolved, logged, and force-closed, so a caller that forgot to close a
// child can never fail the file close or leak the underlying resource.
// Close is idempotent.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.sweepLeaks()
	err := f.gw.CloseFile(f.handle)
	f.closed = true
	f.handle = ClosedHandle
	if err != nil {
		f.log.Error("closing container",
			zap.String("path", f.path),
			zap.Error(err))
		return &OpError{Op: "close file", Path: f.path, Err: err}
	}
	return nil
}

// sweepLeaks force-closes every descendant handle still open under the
// file. Failures are logged and never propagated: the file close must
// succeed whenever physically possible.
func (f *File) sweepLeaks() {
	count, err := f.gw.OpenDescendantCount(f.handle)
	if err != nil {
		f.log.Warn("querying open descendants",
			zap.String("path", f.path),
			zap.Error(err))
		return
	}
	if count == 0 {
		return
	}
	ids, err := f.gw.OpenDescendantIDs(f.handle)
	if err != nil {
		f.log.Warn("enumerating open descendants",
			zap.String("path", f.path),
			zap.Error(err))
		return
	}
	f.log.Warn("handles left open at file close",
		zap.String("path", f.path),
		zap.Int("count", count))
	for _, leaked := range ids {
		objectPath, nameErr := f.objectPath(leaked)
		if nameErr != nil {
			objectPath = "<unresolvable>"
		}
		f.log.Warn("force-closing leaked handle",
			zap.Int64("id", int64(leaked.ID)),
			zap.Stringer("kind", leaked.Kind),
			zap.String("objectPath", objectPath))
		if closeErr := f.closeHandle(&leaked); closeErr != nil {
			f.log.Warn("closing leaked handle",
				zap.Int64("id", int64(leaked.ID)),
				zap.Error(closeErr))
		}
	}
}

// CloseHandle closes h through the primitive matching its tag and
// overwrites the caller's reference with ClosedHandle. Closing an invalid
// or already-closed reference is a successful no-op.
func (f *File) CloseHandle(h *Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeHandle(h)
}

func (f *File) closeHandle(h *Handle) error {
	if h == nil || !h.Valid() {
		return nil
	}
	if f.closed {
		// The leak sweep already released everything under this file;
		// only the caller's stale reference is left to clear.
		*h = ClosedHandle
		return nil
	}
	var err error
	switch h.Kind {
	case KindFile:
		err = f.gw.CloseFile(*h)
	case KindGroup:
		err = f.gw.CloseGroup(*h)
	case KindDataset:
		err = f.gw.CloseDataset(*h)
	case KindAttribute:
		err = f.gw.CloseAttribute(*h)
	case KindDatatype:
		err = f.gw.CloseDatatype(*h)
	case KindDataspace:
		err = f.gw.CloseDataspace(*h)
	default:
		return &OpError{Op: "close", Loc: *h, Err: fmt.Errorf("%w: kind %d", ErrInvalidHandle, h.Kind)}
	}
	if err != nil {
		return &OpError{Op: "close", Loc: *h, Err: err}
	}
	*h = ClosedHandle
	return nil
}

// OpenHandleCount reports how many descendant handles are currently open
// under the file, excluding the file itself.
func (f *File) OpenHandleCount() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	count, err := f.gw.OpenDescendantCount(f.handle)
	if err != nil {
		return 0, &OpError{Op: "open handle count", Path: f.path, Err: err}
	}
	return count, nil
}

// ObjectPath resolves the canonical path of an open handle. The leading
// slash is stripped unless the handle resolves to the root itself.
func (f *File) ObjectPath(h Handle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", ErrClosed
	}
	return f.objectPath(h)
}

func (f *File) objectPath(h Handle) (string, error) {
	if !h.Valid() {
		return "", ErrInvalidHandle
	}
	p, err := f.readName(func(buf []byte) (int, error) {
		return f.gw.NodeName(h, buf)
	})
	if err != nil {
		return "", &OpError{Op: "object path", Loc: h, Err: err}
	}
	if p != "/" {
		p = strings.TrimPrefix(p, "/")
	}
	return p, nil
}

// ObjectNameAtIndex returns the name of the index'th child of loc.
func (f *File) ObjectNameAtIndex(loc Handle, index int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", ErrClosed
	}
	name, err := f.readName(func(buf []byte) (int, error) {
		return f.gw.ChildNameByIndex(loc, index, buf)
	})
	if err != nil {
		return "", &OpError{Op: "object name at index", Loc: loc, Err: err}
	}
	return name, nil
}

// readName runs the uniform two-phase name protocol: query the required
// size with a nil buffer, then fill a buffer of exactly that size. Every
// variable-length name in this package is retrieved this way so no name is
// ever truncated.
func (f *File) readName(read func(buf []byte) (int, error)) (string, error) {
	size, err := read(nil)
	if err != nil {
		return "", err
	}
	if size <= 0 {
		return "", nil
	}
	buf := make([]byte, size)
	n, err := read(buf)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
