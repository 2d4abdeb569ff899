package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternStar(t *testing.T) {
	p, err := compilePattern("*.log", false)
	require.NoError(t, err)

	assert.True(t, p.match("app.log", false))
	assert.True(t, p.match("dir/app.log", false))
	assert.False(t, p.match("app.log.bak", false))
	assert.False(t, p.match("app.txt", false))
}

func TestPatternDoubleStar(t *testing.T) {
	p, err := compilePattern("**/Cache", false)
	require.NoError(t, err)

	assert.True(t, p.match("Cache", true))
	assert.True(t, p.match("Google/Chrome/Cache", true))
	assert.False(t, p.match("Caches", true))
}

func TestPatternAnchored(t *testing.T) {
	p, err := compilePattern("/Local", false)
	require.NoError(t, err)

	assert.True(t, p.match("Local", true))
	assert.False(t, p.match("sub/Local", true))
}

func TestPatternInnerSlashIsAnchored(t *testing.T) {
	p, err := compilePattern("Google/Chrome", false)
	require.NoError(t, err)

	assert.True(t, p.match("Google/Chrome", true))
	assert.False(t, p.match("x/Google/Chrome", true))
}

func TestPatternBackslashSeparator(t *testing.T) {
	p, err := compilePattern(`Google\Chrome`, false)
	require.NoError(t, err)

	assert.True(t, p.match("Google/Chrome", true))
}

func TestPatternDirOnly(t *testing.T) {
	p, err := compilePattern("Temp/", false)
	require.NoError(t, err)

	assert.True(t, p.match("Temp", true))
	assert.True(t, p.match("sub/Temp", true))
	assert.False(t, p.match("Temp", false))
}

func TestPatternQuestion(t *testing.T) {
	p, err := compilePattern("file?.txt", false)
	require.NoError(t, err)

	assert.True(t, p.match("file1.txt", false))
	assert.False(t, p.match("file12.txt", false))
	assert.False(t, p.match("file/.txt", false))
}

func TestPatternCharClass(t *testing.T) {
	p, err := compilePattern("v[0-9]", false)
	require.NoError(t, err)
	assert.True(t, p.match("v1", true))
	assert.False(t, p.match("vx", true))

	neg, err := compilePattern("v[!0-9]", false)
	require.NoError(t, err)
	assert.True(t, neg.match("vx", true))
	assert.False(t, neg.match("v1", true))
}

func TestPatternUnterminatedClassIsLiteral(t *testing.T) {
	p, err := compilePattern("a[b", false)
	require.NoError(t, err)
	assert.True(t, p.match("a[b", false))
}

func TestPatternLiteralMetaCharacters(t *testing.T) {
	p, err := compilePattern("app (x86)", false)
	require.NoError(t, err)
	assert.True(t, p.match("app (x86)", true))
	assert.False(t, p.match("app x86", true))
}

func TestPatternFoldCase(t *testing.T) {
	p, err := compilePattern("temp", true)
	require.NoError(t, err)
	assert.True(t, p.match("Temp", true))
	assert.True(t, p.match("TEMP", true))
	assert.Equal(t, "temp", p.String())
}
