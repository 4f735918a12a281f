package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadUTF8(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("héllo wörld\n"))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld\n", c.Text)
	assert.Equal(t, UTF8, c.Encoding)
	assert.Equal(t, path, c.Path)
	assert.Len(t, c.Digest, 64)
}

func TestLoadStripsBOM(t *testing.T) {
	c, err := Load(writeFile(t, "bom.txt", []byte("\xef\xbb\xbfabc")))
	require.NoError(t, err)
	assert.Equal(t, "abc", c.Text)
}

func TestLoadWindows1252(t *testing.T) {
	// "café – ok" with 0xE9 for é and 0x96 for the en dash.
	c, err := Load(writeFile(t, "latin.txt", []byte("caf\xe9 \x96 ok")))
	require.NoError(t, err)
	assert.Equal(t, Windows1252, c.Encoding)
	assert.Equal(t, "café – ok", c.Text)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmpty(t *testing.T) {
	c, err := Load(writeFile(t, "empty.txt", nil))
	require.NoError(t, err)
	assert.Empty(t, c.Text)
	assert.Equal(t, UTF8, c.Encoding)
	// SHA-256 of no input.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", c.Digest)

	bom, err := Load(writeFile(t, "bom-only.txt", utf8BOM))
	require.NoError(t, err)
	assert.Equal(t, c.Digest, bom.Digest)
}

func TestDigestDependsOnText(t *testing.T) {
	a, err := Decode([]byte("abc"))
	require.NoError(t, err)
	b, err := Decode([]byte("abd"))
	require.NoError(t, err)
	c, err := Decode([]byte("\xef\xbb\xbfabc"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, b.Digest)
	assert.Equal(t, a.Digest, c.Digest)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "1.txt")
	second := filepath.Join(dir, "2.txt")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))

	all, err := LoadAll([]string{first, second})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "one", all[0].Text)
	assert.Equal(t, "two", all[1].Text)

	_, err = LoadAll([]string{first, filepath.Join(dir, "nope.txt")})
	assert.Error(t, err)
}
