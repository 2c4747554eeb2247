package mapfile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/pinmap/pkg/errors"
)

// Find returns the definition file for name in dir, trying each extension
// in order.
func Find(dir, name string) (string, error) {
	if err := errors.ValidateMapName(name); err != nil {
		return "", err
	}
	for _, ext := range Extensions {
		p := filepath.Join(dir, name+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeMapNotFound, "map %q not found", name)
}

// List returns the names of the definitions in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", dir)
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatOf(e.Name()); err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if errors.ValidateMapName(name) != nil || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
