// futex_linux_amd64.go — raw FUTEX_WAIT / FUTEX_WAKE / FUTEX_WAIT_MULTIPLE.
//
// x/sys/unix exposes no futex wrapper on linux/amd64; grounded directly on
// other_examples/xyproto-vibe67__parallel_unix.go's FutexWait/FutexWake
// (same op codes, same Syscall6 shape) and the op-code table in
// google-gvisor/pkg/abi/linux/futex.go.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWait        = 0
	futexWake        = 1
	futexPrivateFlag = 128
	futexWaitPrivate = futexWait | futexPrivateFlag
	futexWakePrivate = futexWake | futexPrivateFlag

	// sysFutexWaitv is SYS_FUTEX_WAITV on linux/amd64 (449). Not yet
	// exported by every golang.org/x/sys/unix release, so it is pinned
	// here rather than referenced as unix.SYS_FUTEX_WAITV.
	sysFutexWaitv = 449
)

// FutexWaitAddr blocks while *addr == expected, per spec §4.2 ("single
// address wait"). private selects FUTEX_WAIT_PRIVATE; the non-private op
// is the one a wait on a child-thread-id word needs, since the kernel's
// CHILD_CLEARTID wake always hashes into the shared, non-private bucket
// (spec §3, "Ownership & lifecycle"). The pool's own callers pass
// private=true for waits on work_available.
func FutexWaitAddr(addr *uint32, expected uint32, private bool) error {
	op := uintptr(futexWait)
	if private {
		op = futexWaitPrivate
	}
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		op,
		uintptr(expected),
		0, 0, 0,
	)
	if errno != 0 && errno != unix.EAGAIN && errno != unix.EINTR {
		return Errno(errno)
	}
	return nil
}

// FutexWakeAddr wakes up to count waiters blocked on addr (spec §4.2:
// "wake (count)").
func FutexWakeAddr(addr *uint32, count int, private bool) (int, error) {
	op := uintptr(futexWake)
	if private {
		op = futexWakePrivate
	}
	n, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		op,
		uintptr(count),
		0, 0, 0,
	)
	if errno != 0 {
		return 0, Errno(errno)
	}
	return int(n), nil
}

// futexWaitv mirrors struct futex_waitv from linux/futex.h, used by the
// vectored wait below.
type futexWaitv struct {
	val     uint64
	uaddr   uint64
	flags   uint32
	reserve uint32
}

const futex32Bitset = 2 // FUTEX_32 flag bit for futex_waitv.flags

// FutexWaitMulti blocks until any of addrs no longer equals the
// corresponding entry in expected, returning the index of the address
// that woke the waiter (spec §4.2: "multi-address vectored wait (returns
// index of the waiter that was woken, or negative error; timeout-free
// variant is sufficient)"). Exposed for spec-surface completeness, the
// same reason sysx.ThreadPointer/TLSLoadI64 are kept: the syscall the
// original design's teardown loop polls (spec.md §4.6 step 1, "poll the
// child-thread-id word via vectored ... wait") has no child-thread-id
// word to poll here, since pool.Drop waits on each worker goroutine's
// done channel instead (see SPEC_FULL.md §1) — there is no live worker
// thread-id word for a goroutine to publish.
func FutexWaitMulti(addrs []*uint32, expected []uint32) (int, error) {
	if len(addrs) != len(expected) {
		return -1, Errno(unix.EINVAL)
	}
	if len(addrs) == 0 {
		return -1, Errno(unix.EINVAL)
	}
	vec := make([]futexWaitv, len(addrs))
	for i := range addrs {
		vec[i] = futexWaitv{
			val:   uint64(expected[i]),
			uaddr: uint64(uintptr(unsafe.Pointer(addrs[i]))),
			flags: futex32Bitset,
		}
	}
	idx, _, errno := unix.Syscall6(
		sysFutexWaitv,
		uintptr(unsafe.Pointer(&vec[0])),
		uintptr(len(vec)),
		0, // flags
		0, // timeout
		uintptr(unix.CLOCK_MONOTONIC),
		0,
	)
	if errno != 0 {
		return -1, Errno(errno)
	}
	return int(idx), nil
}
