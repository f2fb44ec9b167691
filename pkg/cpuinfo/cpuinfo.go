package cpuinfo

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/tklauser/go-sysconf"

	"github.com/vertti/systemcheck/pkg/sysfs"
)

// DefaultPath is where the kernel exposes per-processor topology.
const DefaultPath = "/proc/cpuinfo"

// Info holds the resolved core counts. Logical and Physical describe
// the host; Available reflects any cgroup CPU restriction on the
// current process. All three are at least 1.
type Info struct {
	Logical   int
	Physical  int
	Available int
}

// Resolver determines CPU core counts from /proc/cpuinfo with
// syscall- and library-backed fallbacks. Nil fields default to the
// real implementations.
type Resolver struct {
	FS   sysfs.FS
	Path string // cpuinfo location, DefaultPath if empty

	// Online returns the number of online processors (sysconf).
	Online func() (int64, error)

	// Counts is the general-purpose CPU count query.
	Counts func(logical bool) (int, error)

	// NumCPU returns the CPU count usable by the current process.
	// Go's runtime.NumCPU() already respects container CPU limits.
	NumCPU func() int
}

// Resolve returns all three counts for the current filesystem state.
func (r *Resolver) Resolve() Info {
	return Info{
		Logical:   r.Logical(),
		Physical:  r.Physical(),
		Available: r.Available(),
	}
}

// Logical returns the host's logical processor count. It counts
// numeric "processor" fields in cpuinfo, then asks sysconf for the
// online processor count, then the CPU count library. The first
// positive answer wins.
func (r *Resolver) Logical() int {
	if n := countProcessors(r.readCPUInfo()); n > 0 {
		return n
	}
	if n, err := r.online(); err == nil && n > 0 {
		return int(n)
	}
	if n, err := r.counts(true); err == nil && n > 0 {
		return n
	}
	return r.numCPU()
}

// Physical returns the host's physical core count: the number of
// unique (physical id, core id) pairs across cpuinfo blocks, falling
// back to the CPU count library.
func (r *Resolver) Physical() int {
	if n := countCores(r.readCPUInfo()); n > 0 {
		return n
	}
	if n, err := r.counts(false); err == nil && n > 0 {
		return n
	}
	return r.numCPU()
}

// Available returns the CPU count usable by the current process,
// including cgroup-imposed restrictions. This is deliberately a
// single source, not a fallback chain.
func (r *Resolver) Available() int {
	return r.numCPU()
}

// ModelName returns the CPU brand string, or "" when unknown.
func (r *Resolver) ModelName() string {
	return strings.TrimSpace(cpuid.CPU.BrandName)
}

func (r *Resolver) readCPUInfo() string {
	fs := r.FS
	if fs == nil {
		fs = &sysfs.RealFS{}
	}
	path := r.Path
	if path == "" {
		path = DefaultPath
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func (r *Resolver) online() (int64, error) {
	if r.Online != nil {
		return r.Online()
	}
	return sysconf.Sysconf(sysconf.SC_NPROCESSORS_ONLN)
}

func (r *Resolver) counts(logical bool) (int, error) {
	if r.Counts != nil {
		return r.Counts(logical)
	}
	return cpu.Counts(logical)
}

func (r *Resolver) numCPU() int {
	if r.NumCPU != nil {
		return r.NumCPU()
	}
	return runtime.NumCPU()
}

// countProcessors counts cpuinfo lines with a numeric "processor" field.
// Malformed lines are skipped.
func countProcessors(data string) int {
	n := 0
	for _, line := range strings.Split(data, "\n") {
		key, value, ok := splitField(line)
		if !ok || key != "processor" {
			continue
		}
		if _, err := strconv.Atoi(value); err == nil {
			n++
		}
	}
	return n
}

// countCores counts unique (physical id, core id) pairs. Blocks
// missing either field are excluded rather than failing the parse.
func countCores(data string) int {
	type coreKey struct{ physical, core int }
	seen := make(map[coreKey]struct{})

	for _, block := range strings.Split(data, "\n\n") {
		physical, core := -1, -1
		for _, line := range strings.Split(block, "\n") {
			key, value, ok := splitField(line)
			if !ok {
				continue
			}
			switch key {
			case "physical id":
				if id, err := strconv.Atoi(value); err == nil {
					physical = id
				}
			case "core id":
				if id, err := strconv.Atoi(value); err == nil {
					core = id
				}
			}
		}
		if physical >= 0 && core >= 0 {
			seen[coreKey{physical, core}] = struct{}{}
		}
	}
	return len(seen)
}

// splitField splits a "key\t: value" cpuinfo line.
func splitField(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}
