package output

import (
	"fmt"
	"io"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/systemcheck/pkg/cgroup"
	"github.com/vertti/systemcheck/pkg/report"
)

var (
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		red, dim, reset = "", "", ""
	}
}

// PrintSummary writes the short human-readable report.
func PrintSummary(w io.Writer, toolVersion string, s report.Snapshot) {
	fmt.Fprintf(w, "systemcheck: %s\n\n", toolVersion)

	fmt.Fprintln(w, "CPU Usage:")
	if s.CPUConstrained() {
		fmt.Fprintf(w, "Constrained to %d of %d CPUs\n", s.CPU.Available, s.CPU.Logical)
	} else {
		fmt.Fprintf(w, "Not constrained: %d CPUs available\n", s.CPU.Available)
	}
	fmt.Fprintln(w)

	if s.MemoryLimit != nil {
		fmt.Fprintf(w, "Memory: Limited to %s of %s available\n",
			FormatSize(*s.MemoryLimit), FormatSize(s.Memory.AvailableBytes))
	} else {
		fmt.Fprintf(w, "Memory: Unconstrained, %s available\n", FormatSize(s.Memory.AvailableBytes))
	}

	switch {
	case s.DefaultUserSlice && !s.ExplicitLimits:
		fmt.Fprintln(w, "CGroup: default user slice (no explicit limits)")
	case s.CgroupPath != "" && s.CgroupPath != "/":
		if s.ExplicitLimits {
			fmt.Fprintf(w, "CGroup: limits present at %s\n", s.CgroupPath)
		} else {
			fmt.Fprintf(w, "CGroup: %s (no explicit limits)\n", s.CgroupPath)
		}
	}

	fmt.Fprintln(w, "\nsee more details with systemcheck -v")
}

// PrintSections writes the verbose sectioned report.
func PrintSections(w io.Writer, toolVersion string, s report.Snapshot) {
	fmt.Fprintf(w, "systemcheck v%s\n\n", toolVersion)
	fmt.Fprintln(w, "=== System Check - Resource Diagnostics ===")
	fmt.Fprintln(w)
	printCPUSection(w, s)
	fmt.Fprintln(w)
	printMemorySection(w, s)
	fmt.Fprintln(w)
	printCGroupSection(w, s)
}

func printCPUSection(w io.Writer, s report.Snapshot) {
	fmt.Fprintln(w, "CPU Information:")
	fmt.Fprintln(w, "----------------")
	fmt.Fprintf(w, "  %s %d threads\n", formatLabel("System Logical CPUs:    "), s.CPU.Logical)
	fmt.Fprintf(w, "  %s %d cores\n", formatLabel("System Physical CPUs:   "), s.CPU.Physical)
	fmt.Fprintf(w, "  %s %d\n", formatLabel("Available CPUs (cgroup):"), s.CPU.Available)
	if s.CPUModel != "" {
		fmt.Fprintf(w, "  %s %s\n", formatLabel("CPU Model:              "), s.CPUModel)
	}
	if s.CPUConstrained() {
		fmt.Fprintf(w, "  %swarning: CPU is constrained by cgroups to %d of %d system CPUs%s\n",
			red, s.CPU.Available, s.CPU.Logical, reset)
	}
	if s.CPUQuota != nil {
		fmt.Fprintf(w, "  %s %.2f CPUs\n", formatLabel("CGroup CPU Quota:       "), *s.CPUQuota)
	}
}

func printMemorySection(w io.Writer, s report.Snapshot) {
	fmt.Fprintln(w, "Memory Information:")
	fmt.Fprintln(w, "-------------------")
	fmt.Fprintf(w, "  %s %s\n", formatLabel("System Total Memory:    "), FormatSize(s.Memory.TotalBytes))
	fmt.Fprintf(w, "  %s %s\n", formatLabel("System Available Memory:"), FormatSize(s.Memory.AvailableBytes))
	fmt.Fprintf(w, "  %s %s\n", formatLabel("System Used Memory:     "), FormatSize(s.Memory.UsedBytes))

	if s.MemoryLimit == nil {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", formatLabel("CGroup Memory Limit:    "), FormatSize(*s.MemoryLimit))
	if !s.MemoryConstrained() {
		return
	}
	fmt.Fprintf(w, "  %swarning: Memory is constrained by cgroups%s\n", red, reset)
	if s.MemoryUsage != nil {
		percent := float64(*s.MemoryUsage) / float64(*s.MemoryLimit) * 100
		fmt.Fprintf(w, "  %s %s (%.1f%% of limit)\n",
			formatLabel("CGroup Memory Usage:    "), FormatSize(*s.MemoryUsage), percent)
	}
}

func printCGroupSection(w io.Writer, s report.Snapshot) {
	fmt.Fprintln(w, "CGroup Information:")
	fmt.Fprintln(w, "-------------------")

	switch s.CgroupVersion {
	case cgroup.V2:
		fmt.Fprintln(w, "  CGroup Version: v2 (unified hierarchy)")
	case cgroup.V1:
		fmt.Fprintln(w, "  CGroup Version: v1")
	default:
		fmt.Fprintln(w, "  CGroup Version: Not detected or not in container")
	}

	if len(s.CgroupEntries) > 0 {
		fmt.Fprintln(w, "  Current Process CGroups:")
		for _, entry := range s.CgroupEntries {
			fmt.Fprintf(w, "    %s\n", entry)
		}
	}

	if s.CgroupPath == "" || s.CgroupPath == "/" {
		return
	}

	fmt.Fprintln(w, "\n  Resource Constraints for Current CGroup:")
	if s.CPUQuota != nil {
		fmt.Fprintf(w, "    CPU Quota: %.2f CPUs\n", *s.CPUQuota)
	}
	if s.MemoryLimit != nil {
		fmt.Fprintf(w, "    Memory Limit: %s\n", FormatSize(*s.MemoryLimit))
	}
	if s.DefaultUserSlice && !s.ExplicitLimits {
		fmt.Fprintln(w, "\n  Note: no explicit cpu/memory/cpuset limits detected at this cgroup; this looks like a default systemd user slice.")
	}
}

// formatLabel dims the "key:" prefix of a "key: value" label.
func formatLabel(s string) string {
	if dim == "" {
		return s
	}
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return dim + s[:i+1] + reset + s[i+1:]
		}
	}
	return s
}
