// rseq_linux_amd64.go — rseq(2) registration (spec §6: "restartable
// sequences registration... optional CPU/node introspection"). Not
// consumed by pool/worker today; kept as a spec-surface primitive the
// way spec.md marks it optional.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Rseq mirrors struct rseq's fixed 32-byte kernel ABI layout.
type Rseq struct {
	CPUIDStart    uint32
	CPUID         uint32
	RseqCS        uint64
	Flags         uint32
	NodeIDStart   uint32
	MmCID         uint32
	_             [4]byte
}

// RseqRegister registers r with the kernel for the calling thread.
func RseqRegister(r *Rseq, sig uint32) error {
	_, _, errno := unix.RawSyscall6(
		unix.SYS_RSEQ,
		uintptr(unsafe.Pointer(r)),
		unsafe.Sizeof(*r),
		0,
		uintptr(sig),
		0, 0,
	)
	if errno != 0 {
		return Errno(errno)
	}
	return nil
}
