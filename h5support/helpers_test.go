package h5support_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jmarquisbq/H5Support/h5support"
	"github.com/jmarquisbq/H5Support/internal/memgate"
)

// newTestFile creates a fresh in-memory container and opens it read-write.
func newTestFile(t *testing.T, path string, opts ...h5support.Option) (*memgate.Gateway, *h5support.File) {
	t.Helper()
	gw := memgate.New()
	opts = append([]h5support.Option{h5support.WithLogger(zaptest.NewLogger(t))}, opts...)
	f, err := h5support.Create(gw, path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})
	return gw, f
}
