package cpuinfo

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vertti/systemcheck/pkg/testutil"
)

// cpuinfoBlock renders one /proc/cpuinfo processor block.
func cpuinfoBlock(processor, physicalID, coreID int) string {
	return fmt.Sprintf(
		"processor\t: %d\nvendor_id\t: GenuineIntel\nmodel name\t: Intel(R) Test CPU\nphysical id\t: %d\ncore id\t\t: %d\ncpu MHz\t\t: 2400.000\n",
		processor, physicalID, coreID)
}

// hyperthreaded host: 2 sockets x 2 cores x 2 threads = 8 logical, 4 physical.
func eightLogicalFourPhysical() string {
	var blocks []string
	processor := 0
	for socket := 0; socket < 2; socket++ {
		for core := 0; core < 2; core++ {
			for thread := 0; thread < 2; thread++ {
				blocks = append(blocks, cpuinfoBlock(processor, socket, core))
				processor++
			}
		}
	}
	return strings.Join(blocks, "\n")
}

func fakeResolver(cpuinfo string) *Resolver {
	return &Resolver{
		FS:     &testutil.MapFS{Files: map[string]string{DefaultPath: cpuinfo}},
		Online: func() (int64, error) { return 0, errors.New("sysconf unavailable") },
		Counts: func(bool) (int, error) { return 0, errors.New("counts unavailable") },
		NumCPU: func() int { return 1 },
	}
}

func TestLogical_CountsProcessorBlocks(t *testing.T) {
	tests := []struct {
		name    string
		cpuinfo string
		want    int
	}{
		{"single processor", cpuinfoBlock(0, 0, 0), 1},
		{"eight processors", eightLogicalFourPhysical(), 8},
		{
			"non-numeric processor field skipped",
			cpuinfoBlock(0, 0, 0) + "\nprocessor\t: abc\n",
			1,
		},
		{
			"truncated lines skipped",
			"processor\t: 0\ngarbage line without separator\nprocessor\t: 1\n",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fakeResolver(tt.cpuinfo).Logical())
		})
	}
}

func TestLogical_FallbackChain(t *testing.T) {
	t.Run("sysconf wins when cpuinfo unreadable", func(t *testing.T) {
		r := fakeResolver("")
		r.FS = &testutil.MapFS{}
		r.Online = func() (int64, error) { return 16, nil }

		assert.Equal(t, 16, r.Logical())
	})

	t.Run("count library wins when sysconf fails", func(t *testing.T) {
		r := fakeResolver("")
		r.FS = &testutil.MapFS{}
		r.Counts = func(logical bool) (int, error) {
			assert.True(t, logical)
			return 12, nil
		}

		assert.Equal(t, 12, r.Logical())
	})

	t.Run("sysconf zero advances to next stage", func(t *testing.T) {
		r := fakeResolver("")
		r.Online = func() (int64, error) { return 0, nil }
		r.Counts = func(bool) (int, error) { return 6, nil }

		assert.Equal(t, 6, r.Logical())
	})

	t.Run("NumCPU is the last resort", func(t *testing.T) {
		r := fakeResolver("")
		r.NumCPU = func() int { return 3 }

		assert.Equal(t, 3, r.Logical())
	})
}

func TestPhysical_UniqueCorePairs(t *testing.T) {
	tests := []struct {
		name    string
		cpuinfo string
		want    int
	}{
		{"hyperthreaded pairs deduplicated", eightLogicalFourPhysical(), 4},
		{"single core", cpuinfoBlock(0, 0, 0), 1},
		{
			"same core id on different sockets counted separately",
			cpuinfoBlock(0, 0, 0) + "\n" + cpuinfoBlock(1, 1, 0),
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fakeResolver(tt.cpuinfo).Physical())
		})
	}
}

func TestPhysical_BlocksMissingTopologyExcluded(t *testing.T) {
	// VMs often omit physical id / core id entirely.
	noTopology := "processor\t: 0\nmodel name\t: Virtual CPU\n\nprocessor\t: 1\nmodel name\t: Virtual CPU\n"

	r := fakeResolver(noTopology)
	r.Counts = func(logical bool) (int, error) {
		assert.False(t, logical)
		return 2, nil
	}

	assert.Equal(t, 2, r.Physical(), "no usable pairs should fall back to the count library")
}

func TestPhysical_PartialBlockExcluded(t *testing.T) {
	// One complete block plus one missing its core id: only the
	// complete pair counts.
	partial := cpuinfoBlock(0, 0, 0) + "\nprocessor\t: 1\nphysical id\t: 0\n"

	assert.Equal(t, 1, fakeResolver(partial).Physical())
}

func TestAvailable_UsesProcessCPUCountOnly(t *testing.T) {
	// Available must ignore cpuinfo entirely: a cgroup-restricted
	// process sees fewer CPUs than the host exposes.
	r := fakeResolver(eightLogicalFourPhysical())
	r.NumCPU = func() int { return 2 }

	assert.Equal(t, 2, r.Available())
	assert.Equal(t, 8, r.Logical())
}

func TestResolve_Idempotent(t *testing.T) {
	r := fakeResolver(eightLogicalFourPhysical())
	r.NumCPU = func() int { return 8 }

	first := r.Resolve()
	second := r.Resolve()

	assert.Equal(t, first, second)
	assert.Equal(t, Info{Logical: 8, Physical: 4, Available: 8}, first)
}
