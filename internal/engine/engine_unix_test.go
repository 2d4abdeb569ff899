//go:build unix

package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRunRejectsNamedPipe(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeTree(t, src, map[string]string{"f": "x"})
	require.NoError(t, unix.Mkfifo(filepath.Join(src, "pipe"), 0o644))

	res := Run(context.Background(), Config{Src: src, Dst: filepath.Join(base, "dst")})
	require.ErrorIs(t, res.Err, ErrUnsupported)
}
