// Package cgroup locates the current process's cgroup and resolves
// the CPU and memory limits enforced on it, across both the v1 and
// v2 (unified) hierarchies.
package cgroup

import (
	"path/filepath"
	"strings"

	"github.com/vertti/systemcheck/pkg/sysfs"
)

const (
	// DefaultRoot is the conventional cgroup mount point.
	DefaultRoot = "/sys/fs/cgroup"

	// DefaultProcPath lists the current process's cgroup memberships.
	DefaultProcPath = "/proc/self/cgroup"
)

// Version identifies which cgroup hierarchy is mounted.
type Version string

const (
	V1          Version = "v1"
	V2          Version = "v2"
	VersionNone Version = ""
)

// Locator detects the mounted cgroup version and the current
// process's cgroup path.
type Locator struct {
	FS       sysfs.FS
	Root     string // cgroup mount point, DefaultRoot if empty
	ProcPath string // process cgroup file, DefaultProcPath if empty
}

// DetectVersion reports which hierarchy is mounted. The v2 unified
// marker is authoritative even when legacy v1 mount points are also
// visible (hybrid hierarchies).
func (l *Locator) DetectVersion() Version {
	fs, root := l.fs(), l.root()

	if fs.Exists(filepath.Join(root, "cgroup.controllers")) {
		return V2
	}
	if fs.Exists(filepath.Join(root, "cpu")) || fs.Exists(filepath.Join(root, "memory")) {
		return V1
	}
	return VersionNone
}

// CurrentPath returns the current process's cgroup path relative to
// the controller mount root: the `0::<path>` entry on v2, the entry
// whose controller list contains `memory` on v1. The second return is
// false when no matching entry exists or the file is unreadable;
// callers must then skip limit resolution rather than guess a root
// path.
func (l *Locator) CurrentPath(v Version) (string, bool) {
	if v == VersionNone {
		return "", false
	}

	data, err := l.fs().ReadFile(l.procPath())
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(data), "\n") {
		if v == V2 {
			if path, found := strings.CutPrefix(line, "0::"); found {
				return path, true
			}
			continue
		}

		// v1 format: hierarchy-id:controllers:path
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		for _, controller := range strings.Split(parts[1], ",") {
			if controller == "memory" {
				return parts[2], true
			}
		}
	}
	return "", false
}

// Entries returns the non-empty lines of the process cgroup file,
// one per hierarchy membership, for diagnostic display.
func (l *Locator) Entries() []string {
	data, err := l.fs().ReadFile(l.procPath())
	if err != nil {
		return nil
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}

func (l *Locator) fs() sysfs.FS {
	if l.FS == nil {
		return &sysfs.RealFS{}
	}
	return l.FS
}

func (l *Locator) root() string {
	if l.Root == "" {
		return DefaultRoot
	}
	return l.Root
}

func (l *Locator) procPath() string {
	if l.ProcPath == "" {
		return DefaultProcPath
	}
	return l.ProcPath
}
