package cgroup

import (
	"path/filepath"
	"strings"
)

// IsDefaultUserSlice reports whether the path looks like a default
// systemd user session, e.g. /user.slice/user-1000.slice/session-4.scope.
func IsDefaultUserSlice(path string) bool {
	return strings.HasPrefix(path, "/user.slice/user-") && strings.Contains(path, "/session-")
}

// HasExplicitLimits reports whether the cgroup at path carries any
// explicit cpu, memory or cpuset restriction of its own, as opposed
// to inheriting everything from its ancestors.
func (r *LimitResolver) HasExplicitLimits(v Version, path string) bool {
	switch v {
	case V2:
		if _, ok := r.readCPUMax(filepath.Join(r.root(), path, "cpu.max")); ok {
			return true
		}
		if _, ok := r.readMemoryLimit(filepath.Join(r.root(), path, "memory.max")); ok {
			return true
		}
		return r.cpusetDiffers(
			filepath.Join(r.root(), path, "cpuset.cpus.effective"),
			filepath.Join(r.root(), "cpuset.cpus.effective"),
		)
	case V1:
		if _, ok := r.readCFS(filepath.Join(r.root(), "cpu", path)); ok {
			return true
		}
		if _, ok := r.readMemoryLimit(filepath.Join(r.root(), "memory", path, "memory.limit_in_bytes")); ok {
			return true
		}
		return r.cpusetDiffers(
			filepath.Join(r.root(), "cpuset", path, "cpuset.cpus"),
			filepath.Join(r.root(), "cpuset", "cpuset.cpus"),
		)
	}
	return false
}

// cpusetDiffers reports whether the cgroup's cpuset deviates from the
// root cpuset, meaning the process is pinned to a subset of CPUs.
func (r *LimitResolver) cpusetDiffers(pathFile, rootFile string) bool {
	own, ok := r.readTrimmed(pathFile)
	if !ok || own == "" {
		return false
	}
	root, ok := r.readTrimmed(rootFile)
	if !ok || root == "" {
		return false
	}
	return own != root
}
