package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "exclude.rules")

	content := `# folders we never move
+ Code
- *Cache*

- Temp/
Microsoft
`
	require.NoError(t, os.WriteFile(rulesPath, []byte(content), 0o644))

	c := NewChain()
	require.NoError(t, c.LoadFile(rulesPath))

	require.Equal(t, 4, c.Len())
	assert.True(t, c.rules[0].Include)
	assert.False(t, c.rules[1].Include)
	assert.False(t, c.rules[2].Include)
	assert.False(t, c.rules[3].Include)

	assert.True(t, c.Match("Code", true))
	assert.False(t, c.Match("GPUCache", true))
	assert.False(t, c.Match("Temp", true))
	assert.False(t, c.Match("Microsoft", true))
	assert.True(t, c.Match("Slack", true))
}

func TestLoadFile_Missing(t *testing.T) {
	err := NewChain().LoadFile(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestLoadFile_BadPatternReportsLine(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "bad.rules")
	require.NoError(t, os.WriteFile(rulesPath, []byte("ok\n- [z-a]\n"), 0o644))

	err := NewChain().LoadFile(rulesPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
