// affinity_linux_amd64.go — sched_setaffinity(2) via golang.org/x/sys/unix.
//
// Grounded on ring24/setaffinity_linux.go (teacher) and
// other_examples/23skdu-longbow__numa_allocator_linux.go's setCPUAffinity,
// which use unix.CPUSet/unix.SchedSetaffinity instead of a raw syscall —
// x/sys/unix wraps this one cleanly, so no raw Syscall call is needed here.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// CPUMask is a bitmask of CPU indices, one bit per CPU, matching spec
// §6's "CPU-affinity set for the current thread given a bitmask and its
// size."
type CPUMask uint64

// Set returns m with bit cpu set.
func (m CPUMask) Set(cpu int) CPUMask { return m | (1 << uint(cpu)) }

// Clear returns m with bit cpu cleared.
func (m CPUMask) Clear(cpu int) CPUMask { return m &^ (1 << uint(cpu)) }

// Has reports whether bit cpu is set.
func (m CPUMask) Has(cpu int) bool { return m&(1<<uint(cpu)) != 0 }

// Count returns the number of set bits.
func (m CPUMask) Count() int {
	n := 0
	for m != 0 {
		m &= m - 1
		n++
	}
	return n
}

// SetAffinity pins the calling OS thread to the CPUs in mask.
func SetAffinity(mask CPUMask) error {
	var set unix.CPUSet
	set.Zero()
	for cpu := 0; cpu < 64; cpu++ {
		if mask.Has(cpu) {
			set.Set(cpu)
		}
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return Errno(err.(unix.Errno))
	}
	return nil
}

// CurrentCPU returns the CPU the calling thread is currently running on,
// via getcpu(2) (used by the "Affinity" testable property, spec §8.2).
func CurrentCPU() (int, error) {
	var cpu, node uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return -1, Errno(errno)
	}
	return int(cpu), nil
}
