package h5support

import (
	"fmt"
	"strings"
)

// SplitPath splits a slash-delimited object path into its segments. One
// leading and one trailing slash are stripped before splitting.
//
// Examples:
//   - "/a/b/" -> ["a", "b"]
//   - "a/b"   -> ["a", "b"]
//   - "/"     -> ErrInvalidPath
//
// An empty path, a path of only slashes, or a path with an empty interior
// segment is rejected: segments are never empty except when a path
// represents the root, which has no segments at all.
func SplitPath(p string) ([]string, error) {
	trimmed := strings.TrimPrefix(p, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, p)
		}
	}
	return segments, nil
}

// ParentPath returns the path up to, but excluding, the last separator.
// A path without a separator has no parent and yields "", which is distinct
// from the root path.
func ParentPath(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// LeafName returns the final segment of a path. The literal root path "/"
// is returned unchanged; this asymmetry is deliberate and relied upon by
// callers that treat the root as its own name.
func LeafName(p string) string {
	if p == "/" {
		return p
	}
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return p
	}
	return p[i+1:]
}

// ExtractObjectName returns the object name at the end of a path. It is the
// historical name for LeafName and behaves identically.
func ExtractObjectName(p string) string {
	return LeafName(p)
}
