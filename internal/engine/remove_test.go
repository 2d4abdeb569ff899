package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tree")
	writeTree(t, root, map[string]string{"a": "1", "b/c/d": "2", "e/": ""})

	require.NoError(t, RemoveTree(root))
	assert.NoDirExists(t, root)
}

func TestRemoveTreeReadOnly(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tree")
	writeTree(t, root, map[string]string{"locked/file": "x"})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked", "file"), 0o400))
	require.NoError(t, os.Chmod(filepath.Join(root, "locked"), 0o500))

	require.NoError(t, RemoveTree(root))
	assert.NoDirExists(t, root)
}

func TestRemoveTreeMissing(t *testing.T) {
	assert.NoError(t, RemoveTree(filepath.Join(t.TempDir(), "nope")))
}

func TestRemoveTreeSymlinkKeepsTarget(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	writeTree(t, target, map[string]string{"keep": "me"})
	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	require.NoError(t, RemoveTree(link))
	_, err := os.Lstat(link)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.FileExists(t, filepath.Join(target, "keep"))
}
