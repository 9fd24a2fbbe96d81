package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestFindFilesByExtension(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.mustache":        "b",
		"a.mustache":        "a",
		"nested/c.mustache": "c",
		"notes.txt":         "x",
	})

	got, err := FindFilesByExtension(root, ".mustache")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.mustache"),
		filepath.Join(root, "b.mustache"),
		filepath.Join(root, "nested", "c.mustache"),
	}, got)

	_, err = FindFilesByExtension(root, "")
	require.Error(t, err)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".mustache")
	require.Error(t, err)
}

func TestLoadPartials(t *testing.T) {
	root := writeTree(t, map[string]string{
		"header.mustache":    "<h1>{{title}}</h1>",
		"users/row.mustache": "<li>{{name}}</li>",
		"users/readme.md":    "ignored",
	})

	got, err := LoadPartials(root, ".mustache")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"header":    "<h1>{{title}}</h1>",
		"users/row": "<li>{{name}}</li>",
	}, got)
}
