package outputs

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeOutputsTree builds the canonical fixture: a.txt (10 bytes) and
// sub/b.txt (5 bytes) under a fresh root.
func makeOutputsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("0123456789"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("01234"), 0o600))
	return root
}

func TestWalk_DepthZero(t *testing.T) {
	root := makeOutputsTree(t)

	entries, err := Walk(root, 0)
	require.NoError(t, err)

	require.Equal(t, []FileEntry{
		{RelPath: "a.txt", Size: 10},
		{RelPath: "sub", IsDir: true},
	}, entries)
}

func TestWalk_Unlimited(t *testing.T) {
	root := makeOutputsTree(t)

	entries, err := Walk(root, UnlimitedDepth)
	require.NoError(t, err)

	require.Equal(t, []FileEntry{
		{RelPath: "a.txt", Size: 10},
		{RelPath: "sub", IsDir: true},
		{RelPath: filepath.Join("sub", "b.txt"), Size: 5},
	}, entries)
}

func TestWalk_DepthLimitBoundsComponents(t *testing.T) {
	root := t.TempDir()
	dir := root
	for _, name := range []string{"l1", "l2", "l3"} {
		dir = filepath.Join(dir, name)
		require.NoError(t, os.Mkdir(dir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o600))
	}

	for depth := 0; depth <= 3; depth++ {
		entries, err := Walk(root, depth)
		require.NoError(t, err)
		for _, e := range entries {
			components := len(strings.Split(e.RelPath, string(filepath.Separator)))
			assert.LessOrEqual(t, components, depth+1,
				"depth limit %d leaked entry %s", depth, e.RelPath)
		}
	}

	// the full tree is reachable without a limit
	entries, err := Walk(root, UnlimitedDepth)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestWalk_DeterministicOrder(t *testing.T) {
	root := makeOutputsTree(t)

	first, err := Walk(root, UnlimitedDepth)
	require.NoError(t, err)
	second, err := Walk(root, UnlimitedDepth)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWalk_MissingRootFails(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "no-such-dir"), UnlimitedDepth)
	require.Error(t, err)
}

func TestWalk_EmptyRoot(t *testing.T) {
	entries, err := Walk(t.TempDir(), UnlimitedDepth)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, int32(0), clampSize(0))
	assert.Equal(t, int32(1234), clampSize(1234))
	assert.Equal(t, int32(math.MaxInt32), clampSize(math.MaxInt32))
	// beyond 2 GiB the reported size saturates instead of wrapping
	assert.Equal(t, int32(math.MaxInt32), clampSize(math.MaxInt32+1))
	assert.Equal(t, int32(math.MaxInt32), clampSize(5<<30))
}
