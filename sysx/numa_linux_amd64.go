// numa_linux_amd64.go — mbind(2) / get_mempolicy(2) wrappers.
//
// x/sys/unix does not wrap either syscall on linux/amd64; both are issued
// directly via unix.Syscall6 with unix.SYS_MBIND / unix.SYS_GET_MEMPOLICY,
// the same pattern other_examples/23skdu-longbow__numa_allocator.go uses
// for its sysfs-backed topology reader and setCPUAffinity helper.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	mpolBind  = 2      // MPOL_BIND
	mpolFNode = 1 << 0 // MPOL_F_NODE, for get_mempolicy
	mpolFAddr = 1 << 1 // MPOL_F_ADDR, for get_mempolicy
)

// MbindNode binds the address range b to the singleton NUMA node set
// {node} using MPOL_BIND (spec §4.3: "binds it to the singleton node set
// {node} using policy BIND").
func MbindNode(b []byte, node int) error {
	if len(b) == 0 {
		return nil
	}
	var mask uint64
	if node < 0 || node >= 64 {
		return Errno(unix.EINVAL)
	}
	mask = 1 << uint(node)
	_, _, errno := unix.Syscall6(
		unix.SYS_MBIND,
		addrOf(b),
		uintptr(len(b)),
		uintptr(mpolBind),
		uintptr(unsafe.Pointer(&mask)),
		uintptr(64), // maxnode
		0,
	)
	if errno != 0 {
		return Errno(errno)
	}
	return nil
}

// PageNode queries which NUMA node the page containing addr resides on,
// via get_mempolicy(MPOL_F_NODE|MPOL_F_ADDR) (spec §2 item 2: "which node does the
// first page of this arena reside on?").
func PageNode(b []byte) (int, error) {
	if len(b) == 0 {
		return -1, Errno(unix.EINVAL)
	}
	var node int
	_, _, errno := unix.Syscall6(
		unix.SYS_GET_MEMPOLICY,
		uintptr(unsafe.Pointer(&node)),
		0,
		0,
		addrOf(b),
		uintptr(mpolFNode|mpolFAddr),
		0,
	)
	if errno != 0 {
		return -1, Errno(errno)
	}
	return node, nil
}
