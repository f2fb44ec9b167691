package meminfo

import (
	"strconv"
	"strings"

	"github.com/vertti/systemcheck/pkg/sysfs"
)

// DefaultPath is where the kernel exposes memory statistics.
const DefaultPath = "/proc/meminfo"

// Info holds host memory figures in bytes. A zero TotalBytes or
// AvailableBytes means the kernel did not report the field, not that
// the host has no memory.
type Info struct {
	TotalBytes     uint64
	AvailableBytes uint64
	UsedBytes      uint64
}

// Resolver reads host memory totals from /proc/meminfo.
type Resolver struct {
	FS   sysfs.FS
	Path string // meminfo location, DefaultPath if empty
}

// Resolve parses MemTotal and MemAvailable (reported in kiB) and
// derives used memory. Fields that are absent or unparsable resolve
// to 0; the kernel occasionally reporting available > total yields
// UsedBytes 0 rather than an underflow.
func (r *Resolver) Resolve() Info {
	fs := r.FS
	if fs == nil {
		fs = &sysfs.RealFS{}
	}
	path := r.Path
	if path == "" {
		path = DefaultPath
	}

	var totalKB, availableKB uint64
	if data, err := fs.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			switch {
			case strings.HasPrefix(line, "MemTotal:"):
				if v, ok := parseLine(line); ok {
					totalKB = v
				}
			case strings.HasPrefix(line, "MemAvailable:"):
				if v, ok := parseLine(line); ok {
					availableKB = v
				}
			}
		}
	}

	info := Info{
		TotalBytes:     totalKB * 1024,
		AvailableBytes: availableKB * 1024,
	}
	if info.TotalBytes > info.AvailableBytes {
		info.UsedBytes = info.TotalBytes - info.AvailableBytes
	}
	return info
}

// parseLine extracts the numeric value from a "Key:   12345 kB" line.
func parseLine(line string) (uint64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
