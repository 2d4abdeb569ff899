package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSize(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "a", 10)
	mkfile(t, root, "b/c", 20)
	mkfile(t, root, "b/d/e", 30)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	for _, workers := range []int{0, 1, 4} {
		got, err := DirSize(context.Background(), root, workers)
		require.NoError(t, err)
		assert.Equal(t, int64(60), got, "workers=%d", workers)
	}
}

func TestDirSizeSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	mkfile(t, root, "own", 5)
	mkfile(t, outside, "big", 10_000)
	if err := os.Symlink(filepath.Join(outside, "big"), filepath.Join(root, "file-link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "dir-link")))

	got, err := DirSize(context.Background(), root, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestDirSizeCountsHardlinksOnce(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "one", 1000)
	if err := os.Link(filepath.Join(root, "one"), filepath.Join(root, "two")); err != nil {
		t.Skipf("hardlinks unsupported: %v", err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.Link(filepath.Join(root, "one"), filepath.Join(root, "sub", "three")))

	got, err := DirSize(context.Background(), root, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)
}

func TestDirSizeErrors(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "file", 1)

	_, err := DirSize(context.Background(), filepath.Join(root, "missing"), 1)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = DirSize(context.Background(), filepath.Join(root, "file"), 1)
	require.Error(t, err)
}

func TestDirSizeCancelled(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "a/b", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirSize(ctx, root, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSkipError(t *testing.T) {
	s := Skip{Path: "/x", Err: os.ErrPermission}
	assert.Equal(t, "skipped /x: permission denied", s.Error())
	assert.ErrorIs(t, s, os.ErrPermission)
}
