// topology.go — NUMA node/CPU topology reader. Ported from the sysfs-walk
// in other_examples/23skdu-longbow__numa_allocator.go, trimmed to the
// two queries the pool's node-aware factories actually need: which CPUs
// sit on a node, and the bitmask that represents them.

package numa

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"burstpool/sysx"
)

const sysfsNodePath = "/sys/devices/system/node"

// Topology is the set of NUMA nodes visible to the process and the CPUs
// each one owns.
type Topology struct {
	nodeCPUs map[int][]int
}

// DetectTopology reads /sys/devices/system/node. Returns an error if the
// kernel wasn't built with NUMA support or the pool is running inside a
// container that hides it.
func DetectTopology() (*Topology, error) {
	entries, err := os.ReadDir(sysfsNodePath)
	if err != nil {
		return nil, err
	}
	t := &Topology{nodeCPUs: make(map[int][]int)}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(e.Name(), "node"))
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(sysfsNodePath, e.Name(), "cpulist"))
		if err != nil {
			continue
		}
		t.nodeCPUs[id] = parseCPUList(strings.TrimSpace(string(raw)))
	}
	if len(t.nodeCPUs) == 0 {
		return nil, sysx.Errno(2) // ENOENT: no nodes found
	}
	return t, nil
}

// CPUsOnNode returns the CPU ids belonging to node.
func (t *Topology) CPUsOnNode(node int) []int {
	return t.nodeCPUs[node]
}

// NumNodes returns the number of NUMA nodes discovered.
func (t *Topology) NumNodes() int {
	return len(t.nodeCPUs)
}

// NodeCPUMask returns the affinity mask covering every CPU on node.
func (t *Topology) NodeCPUMask(node int) sysx.CPUMask {
	var mask sysx.CPUMask
	for _, cpu := range t.nodeCPUs[node] {
		mask = mask.Set(cpu)
	}
	return mask
}

func parseCPUList(s string) []int {
	var cpus []int
	if s == "" {
		return cpus
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err1 := strconv.Atoi(lo)
			end, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil {
				continue
			}
			for i := start; i <= end; i++ {
				cpus = append(cpus, i)
			}
			continue
		}
		if cpu, err := strconv.Atoi(part); err == nil {
			cpus = append(cpus, cpu)
		}
	}
	return cpus
}
