package report

import "github.com/vertti/systemcheck/pkg/cgroup"

// JSON report shapes. Field names are the tool's stable wire format;
// absent limits serialize as null.

type SimpleCPU struct {
	AvailableCPUs     int  `json:"available_cpus"`
	SystemLogicalCPUs int  `json:"system_logical_cpus"`
	Constrained       bool `json:"constrained"`
}

type SimpleMemory struct {
	SystemAvailableBytes   uint64  `json:"system_available_bytes"`
	CgroupMemoryLimitBytes *uint64 `json:"cgroup_memory_limit_bytes"`
	Constrained            bool    `json:"constrained"`
}

type SimpleReport struct {
	Version string       `json:"version"`
	CPU     SimpleCPU    `json:"cpu"`
	Memory  SimpleMemory `json:"memory"`
}

type DetailedCPU struct {
	SystemLogicalCPUs  int      `json:"system_logical_cpus"`
	SystemPhysicalCPUs int      `json:"system_physical_cpus"`
	AvailableCPUs      int      `json:"available_cpus"`
	Model              string   `json:"cpu_model,omitempty"`
	CgroupCPUQuota     *float64 `json:"cgroup_cpu_quota"`
}

type DetailedMemory struct {
	SystemTotalBytes       uint64  `json:"system_total_bytes"`
	SystemAvailableBytes   uint64  `json:"system_available_bytes"`
	SystemUsedBytes        uint64  `json:"system_used_bytes"`
	CgroupMemoryLimitBytes *uint64 `json:"cgroup_memory_limit_bytes"`
	CgroupMemoryUsageBytes *uint64 `json:"cgroup_memory_usage_bytes"`
}

type DetailedCGroup struct {
	Version          *string  `json:"version"`
	CurrentPath      string   `json:"current_path"`
	CPUQuota         *float64 `json:"cpu_quota"`
	MemoryLimitBytes *uint64  `json:"memory_limit_bytes"`
}

type DetailedReport struct {
	Version string         `json:"version"`
	CPU     DetailedCPU    `json:"cpu"`
	Memory  DetailedMemory `json:"memory"`
	CGroup  DetailedCGroup `json:"cgroup"`
}

// Simple shapes the snapshot into the summary wire format.
func (s Snapshot) Simple(toolVersion string) SimpleReport {
	return SimpleReport{
		Version: toolVersion,
		CPU: SimpleCPU{
			AvailableCPUs:     s.CPU.Available,
			SystemLogicalCPUs: s.CPU.Logical,
			Constrained:       s.CPUConstrained(),
		},
		Memory: SimpleMemory{
			SystemAvailableBytes:   s.Memory.AvailableBytes,
			CgroupMemoryLimitBytes: s.MemoryLimit,
			Constrained:            s.MemoryConstrained(),
		},
	}
}

// Detailed shapes the snapshot into the verbose wire format.
func (s Snapshot) Detailed(toolVersion string) DetailedReport {
	var version *string
	if s.CgroupVersion != cgroup.VersionNone {
		v := string(s.CgroupVersion)
		version = &v
	}

	return DetailedReport{
		Version: toolVersion,
		CPU: DetailedCPU{
			SystemLogicalCPUs:  s.CPU.Logical,
			SystemPhysicalCPUs: s.CPU.Physical,
			AvailableCPUs:      s.CPU.Available,
			Model:              s.CPUModel,
			CgroupCPUQuota:     s.CPUQuota,
		},
		Memory: DetailedMemory{
			SystemTotalBytes:       s.Memory.TotalBytes,
			SystemAvailableBytes:   s.Memory.AvailableBytes,
			SystemUsedBytes:        s.Memory.UsedBytes,
			CgroupMemoryLimitBytes: s.MemoryLimit,
			CgroupMemoryUsageBytes: s.MemoryUsage,
		},
		CGroup: DetailedCGroup{
			Version:          version,
			CurrentPath:      s.CgroupPath,
			CPUQuota:         s.CPUQuota,
			MemoryLimitBytes: s.MemoryLimit,
		},
	}
}
