// Package report runs the resource-resolution pipeline once and
// shapes the outcome for rendering: host CPU topology, host memory,
// and any cgroup-enforced limits on the current process.
package report

import (
	"github.com/vertti/systemcheck/pkg/cgroup"
	"github.com/vertti/systemcheck/pkg/cpuinfo"
	"github.com/vertti/systemcheck/pkg/meminfo"
)

// Gatherer composes the resolvers. Nil fields default to resolvers
// reading the real /proc and /sys/fs/cgroup.
type Gatherer struct {
	CPU     *cpuinfo.Resolver
	Memory  *meminfo.Resolver
	Locator *cgroup.Locator
	Limits  *cgroup.LimitResolver
}

// Snapshot is one complete resolution pass. Limit pointers are nil
// when no enforced limit could be confirmed; unlimited and unknown
// are deliberately the same outcome.
type Snapshot struct {
	CPU      cpuinfo.Info
	CPUModel string
	Memory   meminfo.Info

	CgroupVersion cgroup.Version
	CgroupPath    string
	PathKnown     bool
	CgroupEntries []string

	CPUQuota    *float64
	MemoryLimit *uint64
	MemoryUsage *uint64

	DefaultUserSlice bool
	ExplicitLimits   bool
}

// Gather resolves everything once. Limit resolution is skipped
// entirely when no cgroup is mounted or the process path could not be
// determined.
func (g *Gatherer) Gather() Snapshot {
	cpuRes := g.CPU
	if cpuRes == nil {
		cpuRes = &cpuinfo.Resolver{}
	}
	memRes := g.Memory
	if memRes == nil {
		memRes = &meminfo.Resolver{}
	}
	locator := g.Locator
	if locator == nil {
		locator = &cgroup.Locator{}
	}
	limits := g.Limits
	if limits == nil {
		limits = &cgroup.LimitResolver{}
	}

	s := Snapshot{
		CPU:      cpuRes.Resolve(),
		CPUModel: cpuRes.ModelName(),
		Memory:   memRes.Resolve(),
	}

	s.CgroupVersion = locator.DetectVersion()
	s.CgroupPath, s.PathKnown = locator.CurrentPath(s.CgroupVersion)
	s.CgroupEntries = locator.Entries()

	if s.CgroupVersion == cgroup.VersionNone || !s.PathKnown {
		return s
	}

	if quota, ok := limits.CPUQuota(s.CgroupVersion, s.CgroupPath); ok {
		s.CPUQuota = &quota
	}
	if limit, ok := limits.MemoryLimit(s.CgroupVersion, s.CgroupPath); ok {
		s.MemoryLimit = &limit
	}
	if usage, ok := limits.MemoryUsage(s.CgroupVersion, s.CgroupPath); ok {
		s.MemoryUsage = &usage
	}
	s.DefaultUserSlice = cgroup.IsDefaultUserSlice(s.CgroupPath)
	s.ExplicitLimits = limits.HasExplicitLimits(s.CgroupVersion, s.CgroupPath)

	return s
}

// CPUConstrained reports whether the process sees fewer CPUs than the
// host has.
func (s Snapshot) CPUConstrained() bool {
	return s.CPU.Available < s.CPU.Logical
}

// MemoryConstrained reports whether an enforced memory limit is
// tighter than host total memory. An absent limit is never a
// constraint.
func (s Snapshot) MemoryConstrained() bool {
	return s.MemoryLimit != nil && *s.MemoryLimit < s.Memory.TotalBytes
}
