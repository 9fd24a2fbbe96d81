// Package fsutil provides file system helpers for locating templates and
// partials on disk.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches root for files whose name ends
// with extension and returns their paths in lexical order.
func FindFilesByExtension(root string, extension string) ([]string, error) {
	if extension == "" {
		return nil, errors.New("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// LoadPartials reads every file under root ending with extension. A partial
// is named by its path relative to root, slash separated, without the
// extension: root/users/row.mustache becomes "users/row".
func LoadPartials(root string, extension string) (map[string]string, error) {
	files, err := FindFilesByExtension(root, extension)
	if err != nil {
		return nil, fmt.Errorf("failed to find partials in '%s': %w", root, err)
	}

	partials := make(map[string]string, len(files))
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, err
		}
		name := filepath.ToSlash(strings.TrimSuffix(rel, extension))

		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial '%s': %w", path, err)
		}
		partials[name] = string(src)
	}
	return partials, nil
}
