// sigaction_linux_amd64.go — rt_sigaction(2) with a restorer, and
// sigaltstack(2). Exposed for spec-surface completeness (§6: "real-time
// signal-action set with a user-provided restorer and flags" and
// "alternate-signal-stack set"); not called on the worker path — see
// SPEC_FULL.md §1 and DESIGN.md's fault-handling entry for why: Go's
// runtime already owns SIGSEGV delivery and per-M alt stacks, and
// replacing either from pure Go user code would fight the runtime the
// way google-gvisor/pkg/sighandling.ReplaceSignalHandler's doc comment
// warns against for signals the runtime cares about.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// SigactionFlags mirror the flag bits spec §4.9 requires when installing
// a raw handler: SA_SIGINFO | SA_ONSTACK | SA_RESTORER.
const (
	SaSiginfo  = 0x00000004
	SaOnstack  = 0x08000000
	SaRestorer = 0x04000000
	SigsetSize = 8
)

// KernelSigaction mirrors struct kernel_sigaction from the x86-64 ABI:
// handler, flags, restorer, mask — in that field order, unlike libc's
// struct sigaction.
type KernelSigaction struct {
	Handler  uintptr
	Flags    uint64
	Restorer uintptr
	Mask     uint64
}

// RtSigaction installs a raw signal handler with an explicit restorer,
// bypassing libc and the Go runtime's own signal machinery (spec §6).
func RtSigaction(sig int, act *KernelSigaction, old *KernelSigaction) error {
	_, _, errno := unix.RawSyscall6(
		unix.SYS_RT_SIGACTION,
		uintptr(sig),
		uintptr(unsafe.Pointer(act)),
		uintptr(unsafe.Pointer(old)),
		SigsetSize,
		0, 0,
	)
	if errno != 0 {
		return Errno(errno)
	}
	return nil
}

// AltStack mirrors struct sigaltstack.
type AltStack struct {
	SP    uintptr
	Flags int32
	_     int32
	Size  uintptr
}

// SigaltstackSet installs ss as the alternate signal stack for the
// calling thread (spec §4.6 slot layout: "alternate signal stack" set
// per worker).
func SigaltstackSet(ss *AltStack, old *AltStack) error {
	_, _, errno := unix.RawSyscall(
		unix.SYS_SIGALTSTACK,
		uintptr(unsafe.Pointer(ss)),
		uintptr(unsafe.Pointer(old)),
		0,
	)
	if errno != 0 {
		return Errno(errno)
	}
	return nil
}
