package relocate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// layout builds a source folder "AppData/Roaming/Tool" with nested files
// and an empty destination volume, returning (source, destinationParent).
func layout(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	src := filepath.Join(base, "AppData", "Roaming", "Tool")
	dstParent := filepath.Join(base, "D")
	files := map[string]string{
		"settings.json":         `{"theme":"dark"}`,
		"cache/index":           strings.Repeat("i", 4096),
		"cache/blobs/0001.bin":  strings.Repeat("b", 70_000),
		"logs/2024/01/app.log":  "started\n",
		"profiles/default/.ini": "",
	}
	for rel, content := range files {
		p := filepath.Join(src, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o755))
	require.NoError(t, os.MkdirAll(dstParent, 0o755))
	return src, dstParent
}

// snapshot records every entry under root: directories as "dir", links as
// "link:<target>", files as their content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch {
		case d.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			out[rel] = "link:" + target
		case d.IsDir():
			out[rel] = "dir"
		default:
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			out[rel] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

// volume returns the directory that holds both source and destination
// trees, for before/after comparisons of the whole test filesystem.
func volume(src string) string {
	return filepath.Dir(filepath.Dir(filepath.Dir(src)))
}

func backups(t *testing.T, src string) []string {
	t.Helper()
	m, err := filepath.Glob(src + backupInfix + "*")
	require.NoError(t, err)
	return m
}
