package h5support

// ID is a gateway identifier for an open object. A non-positive value never
// refers to a live object.
type ID int64

// Kind tags a Handle with the category of object it refers to. The tag
// determines which close primitive is legal for the handle.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile
	KindGroup
	KindDataset
	KindAttribute
	KindDatatype
	KindDataspace
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindGroup:
		return "group"
	case KindDataset:
		return "dataset"
	case KindAttribute:
		return "attribute"
	case KindDatatype:
		return "datatype"
	case KindDataspace:
		return "dataspace"
	default:
		return "invalid"
	}
}

// Handle is a live reference to an open object inside a container. It must
// be closed exactly once, either explicitly through CloseHandle or by the
// leak sweep when the owning file closes.
type Handle struct {
	ID   ID
	Kind Kind
}

// ClosedHandle is the sentinel stored into a reference once it has been
// closed. Closing it again is a no-op.
var ClosedHandle = Handle{ID: -1, Kind: KindInvalid}

// Valid reports whether h can refer to an open object.
func (h Handle) Valid() bool {
	return h.ID > 0 && h.Kind != KindInvalid
}

// NodeType is the classification of a named object in the container.
type NodeType uint8

const (
	NodeOther NodeType = iota
	NodeGroup
	NodeDataset
	NodeNamedDatatype
)

func (t NodeType) String() string {
	switch t {
	case NodeGroup:
		return "group"
	case NodeDataset:
		return "dataset"
	case NodeNamedDatatype:
		return "named datatype"
	default:
		return "other"
	}
}

// NodeInfo is the metadata the gateway reports for an object.
type NodeInfo struct {
	Type     NodeType
	NumAttrs int
}
