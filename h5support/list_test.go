package h5support_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jmarquisbq/H5Support/h5support"
	"github.com/jmarquisbq/H5Support/internal/memgate"
)

// faultGateway wraps a real gateway and injects failures into selected
// primitives.
type faultGateway struct {
	h5support.Gateway
	failInfoFor  string
	failAttrOpen bool
}

func (f *faultGateway) InfoByName(loc h5support.Handle, name string) (h5support.NodeInfo, error) {
	if f.failInfoFor != "" && name == f.failInfoFor {
		return h5support.NodeInfo{}, errors.New("metadata cache corrupted")
	}
	return f.Gateway.InfoByName(loc, name)
}

func (f *faultGateway) OpenAttribute(node h5support.Handle, name string) (h5support.Handle, error) {
	if f.failAttrOpen {
		return h5support.ClosedHandle, errors.New("transient i/o failure")
	}
	return f.Gateway.OpenAttribute(node, name)
}

func TestListChildrenOrderAndFilters(t *testing.T) {
	t.Parallel()
	gw, f := newTestFile(t, "list.h5")
	root := f.Handle()

	// Creation order: g1, g2, d1, g3, dt1.
	require.NoError(t, f.EnsurePath(root, "g1"))
	require.NoError(t, f.EnsurePath(root, "g2"))
	d1, err := gw.CreateDataset(root, "d1")
	require.NoError(t, err)
	require.NoError(t, f.CloseHandle(&d1))
	require.NoError(t, f.EnsurePath(root, "g3"))
	dt1, err := gw.CreateNamedDatatype(root, "dt1")
	require.NoError(t, err)
	require.NoError(t, f.CloseHandle(&dt1))

	names, err := f.ListChildren(root, h5support.FilterAny)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "d1", "g3", "dt1"}, names)

	names, err = f.ListChildren(root, h5support.FilterGroup)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "g3"}, names)

	names, err = f.ListChildren(root, h5support.FilterDataset)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, names)

	names, err = f.ListChildren(root, h5support.FilterGroup.Union(h5support.FilterDataset))
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "d1", "g3"}, names)

	names, err = f.ListChildren(root, h5support.FilterDatatype)
	require.NoError(t, err)
	assert.Equal(t, []string{"dt1"}, names)
}

func TestListChildrenEmptyGroup(t *testing.T) {
	t.Parallel()
	_, f := newTestFile(t, "empty.h5")
	root := f.Handle()

	require.NoError(t, f.EnsurePath(root, "hollow"))
	grp, err := f.OpenObject(root, "hollow")
	require.NoError(t, err)
	defer func() { require.NoError(t, f.CloseHandle(&grp)) }()

	names, err := f.ListChildren(grp, h5support.FilterAny)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListChildrenLongName(t *testing.T) {
	t.Parallel()
	_, f := newTestFile(t, "longname.h5")
	root := f.Handle()

	long := strings.Repeat("n", 2000)
	require.NoError(t, f.EnsurePath(root, long))

	names, err := f.ListChildren(root, h5support.FilterAny)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, long, names[0])
}

func TestListChildrenSkipsUnclassifiable(t *testing.T) {
	t.Parallel()
	inner := memgate.New()
	gw := &faultGateway{Gateway: inner}
	core, logs := observer.New(zap.WarnLevel)
	f, err := h5support.Create(gw, "skip.h5", h5support.WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	root := f.Handle()

	require.NoError(t, f.EnsurePath(root, "good1"))
	require.NoError(t, f.EnsurePath(root, "bad"))
	require.NoError(t, f.EnsurePath(root, "good2"))
	gw.failInfoFor = "bad"

	// A narrowed filter classifies per child: the failing one is skipped,
	// the listing continues.
	names, err := f.ListChildren(root, h5support.FilterGroup)
	require.NoError(t, err)
	assert.Equal(t, []string{"good1", "good2"}, names)
	assert.Len(t, logs.FilterMessage("skipping unclassifiable child").All(), 1)

	// The Any fast path does no classification, so nothing is skipped.
	names, err = f.ListChildren(root, h5support.FilterAny)
	require.NoError(t, err)
	assert.Equal(t, []string{"good1", "bad", "good2"}, names)

	gw.failInfoFor = ""
}

func TestListAttributes(t *testing.T) {
	t.Parallel()
	gw, f := newTestFile(t, "attrs.h5")
	root := f.Handle()

	long := strings.Repeat("x", 1500)
	require.NoError(t, gw.SetAttribute(root, "alpha", int64(1)))
	require.NoError(t, gw.SetAttribute(root, long, "padded"))
	require.NoError(t, gw.SetAttribute(root, "omega", 2.5))

	names, err := f.ListAttributes(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", long, "omega"}, names)
}

func TestListObjectAttributes(t *testing.T) {
	t.Parallel()
	gw, f := newTestFile(t, "objattrs.h5")
	root := f.Handle()

	require.NoError(t, f.EnsurePath(root, "grp"))
	grp, err := f.OpenObject(root, "grp")
	require.NoError(t, err)
	require.NoError(t, gw.SetAttribute(grp, "units", "mm"))
	require.NoError(t, gw.SetAttribute(grp, "scale", 0.001))
	require.NoError(t, f.CloseHandle(&grp))

	names, err := f.ListObjectAttributes(root, "grp")
	require.NoError(t, err)
	assert.Equal(t, []string{"units", "scale"}, names)

	// The object handle opened for the listing is closed again.
	count, err := f.OpenHandleCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.ListObjectAttributes(root, "missing")
	assert.ErrorIs(t, err, h5support.ErrNotFound)
}

func TestProbeAttribute(t *testing.T) {
	t.Parallel()
	inner := memgate.New()
	gw := &faultGateway{Gateway: inner}
	f, err := h5support.Create(gw, "probe.h5")
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	root := f.Handle()

	require.NoError(t, inner.SetAttribute(root, "present", true))

	assert.True(t, f.ProbeAttribute(root, "present"))
	assert.False(t, f.ProbeAttribute(root, "absent"))

	// A transient failure reads as absent; the probe cannot tell the two
	// apart by design.
	gw.failAttrOpen = true
	assert.False(t, f.ProbeAttribute(root, "present"))
	gw.failAttrOpen = false

	// Probing never leaks an attribute handle.
	count, err := f.OpenHandleCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}
