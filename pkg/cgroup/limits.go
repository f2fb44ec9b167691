package cgroup

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vertti/systemcheck/pkg/sysfs"
)

// memoryUnlimited is the kernel's "no limit" value for v1 memory
// limits: MaxInt64 rounded down to the page size (PAGE_COUNTER_MAX).
// Any reported limit at or above it means unbounded.
var memoryUnlimited = uint64(math.MaxInt64) / uint64(os.Getpagesize()) * uint64(os.Getpagesize())

// LimitResolver reads CPU and memory limits for a located cgroup.
//
// Every quantity is probed in a fixed order: the version-specific
// file under the cgroup's own path, then the same file at the
// controller root, accepting the first parsed, non-sentinel value.
// Hierarchies are never mixed: a v1 host never consults v2 files and
// vice versa. Missing files, permission errors, malformed content and
// "unlimited" sentinels all land in the same outcome: absence
// (ok == false), which callers treat as "no enforced limit".
type LimitResolver struct {
	FS   sysfs.FS
	Root string // cgroup mount point, DefaultRoot if empty
}

// CPUQuota resolves the enforced CPU quota as effective fractional
// cores (quota period divided out), or absence when unlimited.
func (r *LimitResolver) CPUQuota(v Version, path string) (float64, bool) {
	switch v {
	case V2:
		return firstHit(
			func() (float64, bool) { return r.readCPUMax(filepath.Join(r.root(), path, "cpu.max")) },
			func() (float64, bool) { return r.readCPUMax(filepath.Join(r.root(), "cpu.max")) },
		)
	case V1:
		return firstHit(
			func() (float64, bool) { return r.readCFS(filepath.Join(r.root(), "cpu", path)) },
			func() (float64, bool) { return r.readCFS(filepath.Join(r.root(), "cpu")) },
		)
	}
	return 0, false
}

// MemoryLimit resolves the enforced memory ceiling in bytes, or
// absence when unlimited.
func (r *LimitResolver) MemoryLimit(v Version, path string) (uint64, bool) {
	switch v {
	case V2:
		return firstHit(
			func() (uint64, bool) { return r.readMemoryLimit(filepath.Join(r.root(), path, "memory.max")) },
			func() (uint64, bool) { return r.readMemoryLimit(filepath.Join(r.root(), "memory.max")) },
		)
	case V1:
		return firstHit(
			func() (uint64, bool) {
				return r.readMemoryLimit(filepath.Join(r.root(), "memory", path, "memory.limit_in_bytes"))
			},
			func() (uint64, bool) {
				return r.readMemoryLimit(filepath.Join(r.root(), "memory", "memory.limit_in_bytes"))
			},
		)
	}
	return 0, false
}

// MemoryUsage resolves current memory usage in bytes, or absence when
// no usage accounting is readable.
func (r *LimitResolver) MemoryUsage(v Version, path string) (uint64, bool) {
	switch v {
	case V2:
		return firstHit(
			func() (uint64, bool) { return r.readUint(filepath.Join(r.root(), path, "memory.current")) },
			func() (uint64, bool) { return r.readUint(filepath.Join(r.root(), "memory.current")) },
		)
	case V1:
		return firstHit(
			func() (uint64, bool) {
				return r.readUint(filepath.Join(r.root(), "memory", path, "memory.usage_in_bytes"))
			},
			func() (uint64, bool) {
				return r.readUint(filepath.Join(r.root(), "memory", "memory.usage_in_bytes"))
			},
		)
	}
	return 0, false
}

// firstHit evaluates probes lazily, stopping at the first that yields
// a value.
func firstHit[T any](probes ...func() (T, bool)) (T, bool) {
	for _, probe := range probes {
		if v, ok := probe(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// readCPUMax parses a v2 cpu.max file: "<quota> <period>" in
// microseconds, where a quota of "max" means unlimited.
func (r *LimitResolver) readCPUMax(file string) (float64, bool) {
	content, ok := r.readTrimmed(file)
	if !ok {
		return 0, false
	}
	fields := strings.Fields(content)
	if len(fields) != 2 || fields[0] == "max" {
		return 0, false
	}
	quota, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || quota <= 0 {
		return 0, false
	}
	period, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || period <= 0 {
		return 0, false
	}
	return float64(quota) / float64(period), true
}

// readCFS combines the v1 cfs_quota_us and cfs_period_us files under
// dir. A quota of -1 means unlimited regardless of the period.
func (r *LimitResolver) readCFS(dir string) (float64, bool) {
	quota, ok := r.readInt(filepath.Join(dir, "cpu.cfs_quota_us"))
	if !ok || quota <= 0 {
		return 0, false
	}
	period, ok := r.readInt(filepath.Join(dir, "cpu.cfs_period_us"))
	if !ok || period <= 0 {
		return 0, false
	}
	return float64(quota) / float64(period), true
}

// readMemoryLimit parses a memory limit file, rejecting both the v2
// "max" token and numeric values at or above the unlimited sentinel.
func (r *LimitResolver) readMemoryLimit(file string) (uint64, bool) {
	content, ok := r.readTrimmed(file)
	if !ok || content == "max" {
		return 0, false
	}
	limit, err := strconv.ParseUint(content, 10, 64)
	if err != nil || limit >= memoryUnlimited {
		return 0, false
	}
	return limit, true
}

func (r *LimitResolver) readUint(file string) (uint64, bool) {
	content, ok := r.readTrimmed(file)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(content, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r *LimitResolver) readInt(file string) (int64, bool) {
	content, ok := r.readTrimmed(file)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(content, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r *LimitResolver) readTrimmed(file string) (string, bool) {
	data, err := r.fs().ReadFile(file)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func (r *LimitResolver) fs() sysfs.FS {
	if r.FS == nil {
		return &sysfs.RealFS{}
	}
	return r.FS
}

func (r *LimitResolver) root() string {
	if r.Root == "" {
		return DefaultRoot
	}
	return r.Root
}
