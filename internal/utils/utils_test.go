package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellQuote(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", "''"},
		{"/etc/hosts", "'/etc/hosts'"},
		{"it's", `'it'\''s'`},
		{"$(rm -rf ~)", "'$(rm -rf ~)'"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ShellQuote(tc.input))
	}
}

func TestExtractors(t *testing.T) {
	data := map[string]any{
		"n":      int64(7),
		"flag":   true,
		"name":   "qwerty",
		"list":   []any{"url", 3, "path"},
		"csv":    "url, path,,ip",
		"tables": []map[string]any{{"name": "a"}},
		"mixed":  []any{map[string]any{"name": "b"}, "junk"},
	}

	n, ok := ExtractInt64(data, "n")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = ExtractInt64(data, "name")
	assert.False(t, ok)

	b, ok := ExtractBool(data, "flag")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := ExtractString(data, "name")
	assert.True(t, ok)
	assert.Equal(t, "qwerty", s)

	list, ok := ExtractStringSlice(data, "list")
	assert.True(t, ok)
	assert.Equal(t, []string{"url", "path"}, list)
	list, ok = ExtractStringSlice(data, "csv")
	assert.True(t, ok)
	assert.Equal(t, []string{"url", "path", "ip"}, list)
	_, ok = ExtractStringSlice(data, "n")
	assert.False(t, ok)

	tables, ok := ExtractTables(data, "tables")
	assert.True(t, ok)
	assert.Len(t, tables, 1)
	tables, ok = ExtractTables(data, "mixed")
	assert.True(t, ok)
	assert.Equal(t, []map[string]any{{"name": "b"}}, tables)

	section, ok := ExtractSection(map[string]any{"server": map[string]any{"x": int64(1)}}, "server")
	assert.True(t, ok)
	assert.Contains(t, section, "x")
}

func TestSaveAndLoadTOML(t *testing.T) {
	type doc struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toml")

	require.NoError(t, SaveTOMLFile(doc{Name: "x", Count: 3}, path))
	assert.True(t, FileExists(path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, doc{Name: "x", Count: 3}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	assert.Equal(t, "x", raw["name"])
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	res := CheckDirStatus(dir)
	assert.NoError(t, res.Error)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
}

func TestUserConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg", UserConfigHome("/home/u"))
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Equal(t, filepath.Join("/home/u", ".config"), UserConfigHome("/home/u"))
}
