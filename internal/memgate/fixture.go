package memgate

import (
	"fmt"

	"github.com/jmarquisbq/H5Support/h5support"
)

var _ h5support.Gateway = (*Gateway)(nil)

// The helpers below are not part of the Gateway interface. They populate a
// container with the node and attribute shapes the convenience layer can
// only read, which in a real container would be written by the codec.

// CreateDataset creates a dataset node under loc and returns its open
// handle.
func (g *Gateway) CreateDataset(loc h5support.Handle, name string) (h5support.Handle, error) {
	return g.createChild(loc, name, h5support.NodeDataset, h5support.KindDataset)
}

// CreateNamedDatatype creates a committed datatype node under loc and
// returns its open handle.
func (g *Gateway) CreateNamedDatatype(loc h5support.Handle, name string) (h5support.Handle, error) {
	return g.createChild(loc, name, h5support.NodeNamedDatatype, h5support.KindDatatype)
}

// SetAttribute attaches an attribute to the node behind h, preserving
// creation order. Setting an existing name overwrites the value in place.
func (g *Gateway) SetAttribute(h h5support.Handle, name string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolve(h)
	if err != nil {
		return err
	}
	if obj.node == nil {
		return fmt.Errorf("%w: handle %d cannot hold attributes", h5support.ErrTypeMismatch, h.ID)
	}
	if existing, ok := obj.node.attrByName[name]; ok {
		existing.value = value
		return nil
	}
	attr := &attribute{name: name, value: value}
	obj.node.attrs = append(obj.node.attrs, attr)
	obj.node.attrByName[name] = attr
	return nil
}

// OpenHandles reports how many handles of any kind, the file included, are
// open against the container at path. Used by tests to verify that a file
// close left nothing behind.
func (g *Gateway) OpenHandles(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	cont, ok := g.containers[path]
	if !ok {
		return 0
	}
	count := 0
	for _, obj := range g.handles {
		if obj.cont == cont {
			count++
		}
	}
	return count
}
