package testutil

import (
	"io/fs"
	"strings"
)

// MapFS is a test double for sysfs.FS backed by an in-memory file map.
type MapFS struct {
	// Files maps absolute paths to file contents.
	Files map[string]string

	// Dirs lists paths that exist as directories.
	Dirs []string

	// Errs maps paths to errors returned by ReadFile, for simulating
	// permission-denied and similar failures.
	Errs map[string]error
}

func (m *MapFS) ReadFile(name string) ([]byte, error) {
	if err, ok := m.Errs[name]; ok {
		return nil, err
	}
	if content, ok := m.Files[name]; ok {
		return []byte(content), nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (m *MapFS) Exists(name string) bool {
	if _, ok := m.Files[name]; ok {
		return true
	}
	if _, ok := m.Errs[name]; ok {
		return true
	}
	for _, d := range m.Dirs {
		if d == name {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to the value (useful for optional fields in tests).
func Ptr[T any](v T) *T {
	return &v
}

// ContainsLine checks if any line of out contains the given substring.
func ContainsLine(out, substr string) bool {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
