package h5support_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarquisbq/H5Support/h5support"
)

func TestSplitPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"a/b", []string{"a", "b"}},
		{"/a/b", []string{"a", "b"}},
		{"/a/b/", []string{"a", "b"}},
		{"a/b/", []string{"a", "b"}},
		{"solo", []string{"solo"}},
		{"/solo/", []string{"solo"}},
		{"a/b/c/d", []string{"a", "b", "c", "d"}},
	}
	for _, tc := range tests {
		got, err := h5support.SplitPath(tc.in)
		require.NoError(t, err, "SplitPath(%q)", tc.in)
		assert.Equal(t, tc.want, got, "SplitPath(%q)", tc.in)
	}
}

func TestSplitPathNormalizationEquivalence(t *testing.T) {
	t.Parallel()

	a, err := h5support.SplitPath("/a/b/")
	require.NoError(t, err)
	b, err := h5support.SplitPath("a/b")
	require.NoError(t, err)
	c, err := h5support.SplitPath("/a/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestSplitPathInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "/", "//", "a//b", "/a//b/"} {
		_, err := h5support.SplitPath(in)
		assert.ErrorIs(t, err, h5support.ErrInvalidPath, "SplitPath(%q)", in)
	}
}

func TestParentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a/b/c", "a/b"},
		{"a/b", "a"},
		{"a", ""},
		{"/a", ""},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, h5support.ParentPath(tc.in), "ParentPath(%q)", tc.in)
	}
}

func TestLeafName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a/b/c", "c"},
		{"a", "a"},
		{"/", "/"},
		{"/a/b", "b"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, h5support.LeafName(tc.in), "LeafName(%q)", tc.in)
		assert.Equal(t, tc.want, h5support.ExtractObjectName(tc.in), "ExtractObjectName(%q)", tc.in)
	}
}
