package memgate

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jmarquisbq/H5Support/h5support"
)

// Gateway is an in-memory container gateway. Containers persist inside the
// Gateway across close/reopen cycles, keyed by path. All methods are safe
// for concurrent use; the mutex here protects the gateway's own tables, the
// call-ordering guarantee still comes from the h5support file lock.
type Gateway struct {
	mu         sync.Mutex
	containers map[string]*container
	handles    map[h5support.ID]*openObject
	nextID     h5support.ID
}

type container struct {
	path    string
	version h5support.FormatVersion
	root    *node
}

type node struct {
	name       string
	typ        h5support.NodeType
	children   []*node
	byName     map[string]*node
	attrs      []*attribute
	attrByName map[string]*attribute
}

type attribute struct {
	name  string
	value any
}

// openObject is one live handle.
type openObject struct {
	kind     h5support.Kind
	cont     *container
	node     *node
	attr     *attribute
	path     string // canonical, leading slash, "/" for the file itself
	readOnly bool
}

// New returns an empty gateway with no containers.
func New() *Gateway {
	return &Gateway{
		containers: make(map[string]*container),
		handles:    make(map[h5support.ID]*openObject),
		nextID:     1,
	}
}

func newGroupNode(name string) *node {
	return &node{
		name:       name,
		typ:        h5support.NodeGroup,
		byName:     make(map[string]*node),
		attrByName: make(map[string]*attribute),
	}
}

func newLeafNode(name string, typ h5support.NodeType) *node {
	return &node{
		name:       name,
		typ:        typ,
		attrByName: make(map[string]*attribute),
	}
}

// OpenContainer opens a previously created container. Read-write opens are
// refused when the container's format is newer than bounds.Upper.
func (g *Gateway) OpenContainer(path string, readOnly bool, bounds h5support.VersionBounds) (h5support.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cont, ok := g.containers[path]
	if !ok {
		return h5support.ClosedHandle, fmt.Errorf("%w: container %q", h5support.ErrNotFound, path)
	}
	if !readOnly {
		if err := checkBounds(bounds); err != nil {
			return h5support.ClosedHandle, err
		}
		if cont.version > bounds.Upper {
			return h5support.ClosedHandle, fmt.Errorf("%w: container format %d, supported upper bound %d",
				h5support.ErrVersionBounds, cont.version, bounds.Upper)
		}
	}
	return g.register(&openObject{
		kind:     h5support.KindFile,
		cont:     cont,
		node:     cont.root,
		path:     "/",
		readOnly: readOnly,
	}), nil
}

// CreateContainer creates the container at path, truncating any existing
// one, and records bounds.Upper as the container's format version.
func (g *Gateway) CreateContainer(path string, bounds h5support.VersionBounds) (h5support.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := checkBounds(bounds); err != nil {
		return h5support.ClosedHandle, err
	}
	cont := &container{
		path:    path,
		version: bounds.Upper,
		root:    newGroupNode("/"),
	}
	g.containers[path] = cont
	return g.register(&openObject{
		kind: h5support.KindFile,
		cont: cont,
		node: cont.root,
		path: "/",
	}), nil
}

func checkBounds(b h5support.VersionBounds) error {
	if b.Lower == 0 || b.Upper == 0 || b.Lower > b.Upper {
		return fmt.Errorf("%w: lower %d, upper %d", h5support.ErrVersionBounds, b.Lower, b.Upper)
	}
	return nil
}

func (g *Gateway) register(obj *openObject) h5support.Handle {
	id := g.nextID
	g.nextID++
	g.handles[id] = obj
	return h5support.Handle{ID: id, Kind: obj.kind}
}

func (g *Gateway) resolve(h h5support.Handle) (*openObject, error) {
	obj, ok := g.handles[h.ID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", h5support.ErrInvalidHandle, h.ID)
	}
	return obj, nil
}

// resolveLocation resolves a handle that must refer to a file or group so
// it can act as a location for by-name operations.
func (g *Gateway) resolveLocation(h h5support.Handle) (*openObject, error) {
	obj, err := g.resolve(h)
	if err != nil {
		return nil, err
	}
	if obj.node == nil || obj.node.typ != h5support.NodeGroup {
		return nil, fmt.Errorf("%w: handle %d is not a location", h5support.ErrTypeMismatch, h.ID)
	}
	return obj, nil
}

// lookup walks a slash-delimited name relative to base. A name with a
// leading slash resolves from the container root instead.
func lookup(cont *container, base *node, name string) (*node, error) {
	cur := base
	if strings.HasPrefix(name, "/") {
		cur = cont.root
	}
	trimmed := strings.Trim(name, "/")
	if trimmed == "" {
		return cur, nil
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if cur.typ != h5support.NodeGroup {
			return nil, fmt.Errorf("%w: %q is not a group", h5support.ErrTypeMismatch, cur.name)
		}
		next, ok := cur.byName[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %q", h5support.ErrNotFound, seg)
		}
		cur = next
	}
	return cur, nil
}

func joinPath(base, name string) string {
	name = strings.Trim(name, "/")
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}

func (g *Gateway) closeAs(h h5support.Handle, kind h5support.Kind, op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolve(h)
	if err != nil {
		return err
	}
	if obj.kind != kind {
		return fmt.Errorf("%w: %s on a %s handle", h5support.ErrTypeMismatch, op, obj.kind)
	}
	delete(g.handles, h.ID)
	return nil
}

func (g *Gateway) CloseFile(h h5support.Handle) error {
	return g.closeAs(h, h5support.KindFile, "close file")
}

func (g *Gateway) CloseGroup(h h5support.Handle) error {
	return g.closeAs(h, h5support.KindGroup, "close group")
}

func (g *Gateway) CloseDataset(h h5support.Handle) error {
	return g.closeAs(h, h5support.KindDataset, "close dataset")
}

func (g *Gateway) CloseAttribute(h h5support.Handle) error {
	return g.closeAs(h, h5support.KindAttribute, "close attribute")
}

func (g *Gateway) CloseDatatype(h h5support.Handle) error {
	return g.closeAs(h, h5support.KindDatatype, "close datatype")
}

func (g *Gateway) CloseDataspace(h h5support.Handle) error {
	return g.closeAs(h, h5support.KindDataspace, "close dataspace")
}

func (g *Gateway) InfoByName(loc h5support.Handle, name string) (h5support.NodeInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolveLocation(loc)
	if err != nil {
		return h5support.NodeInfo{}, err
	}
	n, err := lookup(obj.cont, obj.node, name)
	if err != nil {
		return h5support.NodeInfo{}, err
	}
	return h5support.NodeInfo{Type: n.typ, NumAttrs: len(n.attrs)}, nil
}

func (g *Gateway) ExistsByName(loc h5support.Handle, name string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolveLocation(loc)
	if err != nil {
		return false, err
	}
	if _, err := lookup(obj.cont, obj.node, name); err != nil {
		return false, nil
	}
	return true, nil
}

func (g *Gateway) Info(node h5support.Handle) (h5support.NodeInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolve(node)
	if err != nil {
		return h5support.NodeInfo{}, err
	}
	if obj.node == nil {
		return h5support.NodeInfo{}, fmt.Errorf("%w: handle %d has no object metadata", h5support.ErrTypeMismatch, node.ID)
	}
	return h5support.NodeInfo{Type: obj.node.typ, NumAttrs: len(obj.node.attrs)}, nil
}

// openTyped opens the named child when it has the wanted type.
func (g *Gateway) openTyped(loc h5support.Handle, name string, want h5support.NodeType, kind h5support.Kind) (h5support.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolveLocation(loc)
	if err != nil {
		return h5support.ClosedHandle, err
	}
	n, err := lookup(obj.cont, obj.node, name)
	if err != nil {
		return h5support.ClosedHandle, err
	}
	if n.typ != want {
		return h5support.ClosedHandle, fmt.Errorf("%w: %q is a %s, not a %s", h5support.ErrTypeMismatch, name, n.typ, want)
	}
	return g.register(&openObject{
		kind:     kind,
		cont:     obj.cont,
		node:     n,
		path:     joinPath(obj.path, name),
		readOnly: obj.readOnly,
	}), nil
}

func (g *Gateway) OpenGroup(loc h5support.Handle, name string) (h5support.Handle, error) {
	return g.openTyped(loc, name, h5support.NodeGroup, h5support.KindGroup)
}

func (g *Gateway) OpenDataset(loc h5support.Handle, name string) (h5support.Handle, error) {
	return g.openTyped(loc, name, h5support.NodeDataset, h5support.KindDataset)
}

func (g *Gateway) OpenDatatype(loc h5support.Handle, name string) (h5support.Handle, error) {
	return g.openTyped(loc, name, h5support.NodeNamedDatatype, h5support.KindDatatype)
}

func (g *Gateway) OpenAttribute(node h5support.Handle, name string) (h5support.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolve(node)
	if err != nil {
		return h5support.ClosedHandle, err
	}
	if obj.node == nil {
		return h5support.ClosedHandle, fmt.Errorf("%w: handle %d cannot hold attributes", h5support.ErrTypeMismatch, node.ID)
	}
	attr, ok := obj.node.attrByName[name]
	if !ok {
		return h5support.ClosedHandle, fmt.Errorf("%w: attribute %q", h5support.ErrNotFound, name)
	}
	return g.register(&openObject{
		kind:     h5support.KindAttribute,
		cont:     obj.cont,
		node:     obj.node,
		attr:     attr,
		path:     obj.path,
		readOnly: obj.readOnly,
	}), nil
}

// CreateGroup creates the final segment of name under loc. Intermediate
// segments must already exist; the final one must not.
func (g *Gateway) CreateGroup(loc h5support.Handle, name string) (h5support.Handle, error) {
	return g.createChild(loc, name, h5support.NodeGroup, h5support.KindGroup)
}

func (g *Gateway) createChild(loc h5support.Handle, name string, typ h5support.NodeType, kind h5support.Kind) (h5support.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolveLocation(loc)
	if err != nil {
		return h5support.ClosedHandle, err
	}
	if obj.readOnly {
		return h5support.ClosedHandle, fmt.Errorf("creating %q: %w", name, h5support.ErrReadOnly)
	}
	trimmed := strings.Trim(name, "/")
	if trimmed == "" {
		return h5support.ClosedHandle, fmt.Errorf("%w: empty name", h5support.ErrInvalidPath)
	}
	parent := obj.node
	leaf := trimmed
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		parent, err = lookup(obj.cont, obj.node, trimmed[:i])
		if err != nil {
			return h5support.ClosedHandle, err
		}
		leaf = trimmed[i+1:]
	}
	if parent.typ != h5support.NodeGroup {
		return h5support.ClosedHandle, fmt.Errorf("%w: %q is not a group", h5support.ErrTypeMismatch, parent.name)
	}
	if _, exists := parent.byName[leaf]; exists {
		return h5support.ClosedHandle, fmt.Errorf("link %q already exists", leaf)
	}
	var child *node
	if typ == h5support.NodeGroup {
		child = newGroupNode(leaf)
	} else {
		child = newLeafNode(leaf, typ)
	}
	parent.children = append(parent.children, child)
	parent.byName[leaf] = child
	return g.register(&openObject{
		kind:     kind,
		cont:     obj.cont,
		node:     child,
		path:     joinPath(obj.path, trimmed),
		readOnly: obj.readOnly,
	}), nil
}

// fillName implements the two-phase size-then-fill protocol shared by all
// name queries.
func fillName(name string, buf []byte) (int, error) {
	if buf == nil {
		return len(name), nil
	}
	return copy(buf, name), nil
}

func (g *Gateway) NodeName(node h5support.Handle, buf []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolve(node)
	if err != nil {
		return 0, err
	}
	return fillName(obj.path, buf)
}

func (g *Gateway) NumChildren(loc h5support.Handle) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolveLocation(loc)
	if err != nil {
		return 0, err
	}
	return len(obj.node.children), nil
}

func (g *Gateway) ChildNameByIndex(loc h5support.Handle, index int, buf []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolveLocation(loc)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(obj.node.children) {
		return 0, fmt.Errorf("%w: child index %d of %d", h5support.ErrNotFound, index, len(obj.node.children))
	}
	return fillName(obj.node.children[index].name, buf)
}

func (g *Gateway) AttributeNameByIndex(node h5support.Handle, index int, buf []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, err := g.resolve(node)
	if err != nil {
		return 0, err
	}
	if obj.node == nil {
		return 0, fmt.Errorf("%w: handle %d cannot hold attributes", h5support.ErrTypeMismatch, node.ID)
	}
	if index < 0 || index >= len(obj.node.attrs) {
		return 0, fmt.Errorf("%w: attribute index %d of %d", h5support.ErrNotFound, index, len(obj.node.attrs))
	}
	return fillName(obj.node.attrs[index].name, buf)
}

// descendants collects every non-file handle open under the same container
// as file, sorted by id for deterministic sweeps.
func (g *Gateway) descendants(file h5support.Handle) ([]h5support.Handle, error) {
	obj, err := g.resolve(file)
	if err != nil {
		return nil, err
	}
	if obj.kind != h5support.KindFile {
		return nil, fmt.Errorf("%w: handle %d is not a file", h5support.ErrTypeMismatch, file.ID)
	}
	var out []h5support.Handle
	for id, other := range g.handles {
		if other.cont == obj.cont && other.kind != h5support.KindFile {
			out = append(out, h5support.Handle{ID: id, Kind: other.kind})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *Gateway) OpenDescendantCount(file h5support.Handle) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids, err := g.descendants(file)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (g *Gateway) OpenDescendantIDs(file h5support.Handle) ([]h5support.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.descendants(file)
}
