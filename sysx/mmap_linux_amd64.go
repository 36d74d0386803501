// mmap_linux_amd64.go — anonymous mapping, protection and advice syscalls.
//
// Backs the NUMA arena (numa.Arena) and the per-slot guard pages (layout).
// Grounded on momentics-hioload-ws/core/buffer/bufferpool_linux.go's use of
// raw syscall.Mmap/Munmap for hugepage-backed slabs.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mmap flags used by the pool's arena mapping (spec §4.6 step 1).
const (
	ProtNone  = unix.PROT_NONE
	ProtRead  = unix.PROT_READ
	ProtWrite = unix.PROT_WRITE
	ProtExec  = unix.PROT_EXEC

	MapPrivate   = unix.MAP_PRIVATE
	MapAnonymous = unix.MAP_ANONYMOUS
	MapNorserve  = unix.MAP_NORESERVE
	MapPopulate  = unix.MAP_POPULATE
)

// MadvHugepage requests transparent-huge-page backing (spec §4.2).
const MadvHugepage = unix.MADV_HUGEPAGE

// Mmap reserves an anonymous region of size bytes with the given
// protection and flags. Returns the mapped slice on success.
func Mmap(size int, prot, flags int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, size, prot, flags)
	if err != nil {
		return nil, Errno(err.(unix.Errno))
	}
	return b, nil
}

// Munmap releases a region previously obtained from Mmap.
func Munmap(b []byte) error {
	if err := unix.Munmap(b); err != nil {
		return Errno(err.(unix.Errno))
	}
	return nil
}

// Mprotect changes the protection of an existing mapped region in place;
// used to carve PROT_NONE guard pages out of the slot arena (spec §4.6
// step 3).
func Mprotect(b []byte, prot int) error {
	if err := unix.Mprotect(b, prot); err != nil {
		return Errno(err.(unix.Errno))
	}
	return nil
}

// Madvise applies a memory-usage hint (spec §4.2: "at minimum: hint
// transparent huge pages").
func Madvise(b []byte, advice int) error {
	if err := unix.Madvise(b, advice); err != nil {
		return Errno(err.(unix.Errno))
	}
	return nil
}

// addrOf returns the base address of a mapped slice for use in raw
// syscalls (mbind, get_mempolicy) that operate on address ranges rather
// than Go slices.
func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
