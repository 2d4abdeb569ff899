package link

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdir(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	realDir := mkdir(t, filepath.Join(dir, "real"))
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	lnk := filepath.Join(dir, "lnk")
	require.NoError(t, os.Symlink(realDir, lnk))

	tests := []struct {
		path string
		want State
	}{
		{realDir, Directory},
		{file, Other},
		{lnk, Link},
		{filepath.Join(dir, "absent"), Missing},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, err := Inspect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "directory", Directory.String())
	assert.Equal(t, "link", Link.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestCreateAndCheck(t *testing.T) {
	dir := t.TempDir()
	target := mkdir(t, filepath.Join(dir, "D", "X"))
	path := filepath.Join(dir, "X")

	require.NoError(t, Create(path, target))

	ok, err := IsLink(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, Check(path, target))
	assert.True(t, Verify(path, target))
}

func TestCreateRefusesExistingPath(t *testing.T) {
	dir := t.TempDir()
	target := mkdir(t, filepath.Join(dir, "target"))
	path := mkdir(t, filepath.Join(dir, "occupied"))

	err := Create(path, target)
	require.ErrorIs(t, err, fs.ErrExist)

	st, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, Directory, st)
}

func TestCheckRegularDirectoryWithSameName(t *testing.T) {
	dir := t.TempDir()
	target := mkdir(t, filepath.Join(dir, "D", "X"))
	path := mkdir(t, filepath.Join(dir, "X"))

	err := Check(path, target)
	assert.ErrorIs(t, err, ErrNotLink)
	assert.False(t, Verify(path, target))
}

func TestCheckWrongTarget(t *testing.T) {
	dir := t.TempDir()
	want := mkdir(t, filepath.Join(dir, "want"))
	other := mkdir(t, filepath.Join(dir, "other"))
	path := filepath.Join(dir, "lnk")
	require.NoError(t, os.Symlink(other, path))

	err := Check(path, want)
	assert.ErrorIs(t, err, ErrWrongTarget)
	assert.False(t, Verify(path, want))
}

func TestCheckRelativeLinkContents(t *testing.T) {
	dir := t.TempDir()
	target := mkdir(t, filepath.Join(dir, "D", "X"))
	path := filepath.Join(dir, "X")
	require.NoError(t, os.Symlink(filepath.Join("D", "X"), path))

	assert.NoError(t, Check(path, target))
}

func TestCheckTargetReachedThroughAnotherLink(t *testing.T) {
	dir := t.TempDir()
	realTarget := mkdir(t, filepath.Join(dir, "vol", "X"))
	alias := filepath.Join(dir, "alias")
	require.NoError(t, os.Symlink(filepath.Join(dir, "vol"), alias))

	path := filepath.Join(dir, "X")
	require.NoError(t, os.Symlink(realTarget, path))

	// Expected target spelled through the alias still resolves to the same directory.
	assert.NoError(t, Check(path, filepath.Join(alias, "X")))
}

func TestCheckDanglingLink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "gone")
	path := filepath.Join(dir, "lnk")
	require.NoError(t, os.Symlink(target, path))

	assert.Error(t, Check(path, target))
	assert.False(t, Verify(path, target))
}

func TestCheckMissingPath(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Verify(filepath.Join(dir, "nothing"), dir))
}

func TestRemoveOnlyRemovesLink(t *testing.T) {
	dir := t.TempDir()
	target := mkdir(t, filepath.Join(dir, "target"))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("keep"), 0o644))
	path := filepath.Join(dir, "lnk")
	require.NoError(t, os.Symlink(target, path))

	require.NoError(t, Remove(path))

	st, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, Missing, st)

	data, err := os.ReadFile(filepath.Join(target, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestRemoveRefusesDirectory(t *testing.T) {
	dir := mkdir(t, filepath.Join(t.TempDir(), "real"))

	err := Remove(dir)
	require.ErrorIs(t, err, ErrNotLink)

	st, err := Inspect(dir)
	require.NoError(t, err)
	assert.Equal(t, Directory, st)
}

func TestTargetResolvesRelative(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lnk")
	require.NoError(t, os.Symlink("sub/../elsewhere", path))

	got, err := Target(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "elsewhere"), got)
}
