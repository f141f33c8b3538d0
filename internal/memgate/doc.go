// Package memgate implements the h5support Gateway over an in-memory
// hierarchical namespace: ordered children, ordered attributes, and a
// tracked handle table per container. It models only the abstract tree the
// convenience layer consumes; there is no physical storage, checksumming,
// or paging. The package backs the test suite and serves as the reference
// gateway implementation.
package memgate
