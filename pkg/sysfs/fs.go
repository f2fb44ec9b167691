package sysfs

import "os"

// FS abstracts the kernel pseudo-filesystems (/proc, /sys/fs/cgroup)
// so resolvers can run against a fake root in tests.
type FS interface {
	// ReadFile reads the entire file contents.
	ReadFile(name string) ([]byte, error)

	// Exists reports whether the file or directory exists.
	Exists(name string) bool
}

// RealFS implements FS using the real file system.
type RealFS struct{}

// ReadFile reads the entire file contents.
func (r *RealFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec // intentional: reading /proc and /sys pseudo-files
}

// Exists reports whether the file or directory exists.
func (r *RealFS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
