package h5support

// TypeFilter selects which object types a child listing includes. Filters
// are flag sets and combine with Union and Intersect.
type TypeFilter uint8

const (
	FilterGroup    TypeFilter = 1 << iota // 1
	FilterDataset                         // 2
	FilterDatatype                        // 4
	FilterLink                            // 8

	// FilterAny matches every object type and skips per-child
	// classification entirely.
	FilterAny TypeFilter = FilterGroup | FilterDataset | FilterDatatype | FilterLink
)

// Union returns the filter matching anything f or other matches.
func (f TypeFilter) Union(other TypeFilter) TypeFilter { return f | other }

// Intersect returns the filter matching only what both f and other match.
func (f TypeFilter) Intersect(other TypeFilter) TypeFilter { return f & other }

// Has reports whether f and other share at least one type bit.
func (f TypeFilter) Has(other TypeFilter) bool { return f&other != 0 }

// matches reports whether a classified node type passes the filter.
func (f TypeFilter) matches(t NodeType) bool {
	switch t {
	case NodeGroup:
		return f&FilterGroup != 0
	case NodeDataset:
		return f&FilterDataset != 0
	case NodeNamedDatatype:
		return f&FilterDatatype != 0
	default:
		return false
	}
}
