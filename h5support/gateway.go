package h5support

// FormatVersion identifies a revision of the container's binary format.
type FormatVersion uint8

const (
	VersionEarliest FormatVersion = iota + 1
	Version18
	Version110
	Version112
	VersionLatest
)

// VersionBounds is the [Lower, Upper] format-compatibility window a writer
// declares before creating a file or opening one read-write. The gateway
// must never upgrade a file past Upper.
type VersionBounds struct {
	Lower FormatVersion
	Upper FormatVersion
}

// DefaultVersionBounds is the window used when none is configured.
func DefaultVersionBounds() VersionBounds {
	return VersionBounds{Lower: Version18, Upper: VersionLatest}
}

// Gateway is the primitive interface onto the binary container format. It
// owns everything physical: byte layout, indices, type descriptors. The
// convenience layer above it only ever sees handles and names.
//
// Name-returning methods follow a uniform two-phase protocol: a nil buf
// queries the required size in bytes; a non-nil buf receives the name and
// the call returns the number of bytes written. Callers size the second
// buffer exactly from the first result so names are never truncated.
//
// Absence of a name is reported through errors satisfying
// errors.Is(err, ErrNotFound).
//
// Implementations are assumed non-reentrant per file; the File layer
// serializes every call.
type Gateway interface {
	// OpenContainer opens the container at path. bounds applies only to
	// read-write opens.
	OpenContainer(path string, readOnly bool, bounds VersionBounds) (Handle, error)
	// CreateContainer creates the container at path, truncating any
	// existing content.
	CreateContainer(path string, bounds VersionBounds) (Handle, error)

	// Close primitives. A handle's Kind selects the one that is legal
	// for it.
	CloseFile(Handle) error
	CloseGroup(Handle) error
	CloseDataset(Handle) error
	CloseAttribute(Handle) error
	CloseDatatype(Handle) error
	CloseDataspace(Handle) error

	// InfoByName returns metadata for the object reached by the
	// slash-delimited name relative to loc.
	InfoByName(loc Handle, name string) (NodeInfo, error)
	// ExistsByName reports whether the name resolves under loc.
	ExistsByName(loc Handle, name string) (bool, error)
	// Info returns metadata for an already open object.
	Info(node Handle) (NodeInfo, error)

	// Type-specific open and create primitives.
	OpenGroup(loc Handle, name string) (Handle, error)
	OpenDataset(loc Handle, name string) (Handle, error)
	OpenDatatype(loc Handle, name string) (Handle, error)
	OpenAttribute(node Handle, name string) (Handle, error)
	CreateGroup(loc Handle, name string) (Handle, error)

	// NodeName resolves the canonical path of an open object
	// (two-phase).
	NodeName(node Handle, buf []byte) (int, error)
	// NumChildren returns the size of loc's child index.
	NumChildren(loc Handle) (int, error)
	// ChildNameByIndex returns the name of the index'th child of loc in
	// stable insertion order (two-phase).
	ChildNameByIndex(loc Handle, index int, buf []byte) (int, error)
	// AttributeNameByIndex returns the name of the index'th attribute of
	// node in stable insertion order (two-phase).
	AttributeNameByIndex(node Handle, index int, buf []byte) (int, error)

	// OpenDescendantCount reports how many handles are still open under
	// file, excluding the file handle itself.
	OpenDescendantCount(file Handle) (int, error)
	// OpenDescendantIDs enumerates those handles.
	OpenDescendantIDs(file Handle) ([]Handle, error)
}
