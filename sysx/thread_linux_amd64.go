// thread_linux_amd64.go — raw clone(2) via the "with arguments struct"
// variant (spec §4.2/§6). Present for spec-surface completeness only:
// burstpool's actual worker spawn path uses a goroutine plus
// runtime.LockOSThread (see SPEC_FULL.md §1) because a bare clone(2)'d
// thread has no g/m/p and cannot safely execute Go code — the same
// limitation other_examples/xyproto-vibe67__parallel_unix.go's
// CloneThread runs into, where the "child" can only invoke a
// placeholder, non-Go entry point.

//go:build linux && amd64

package sysx

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	CloneVM            = 0x00000100
	CloneFS            = 0x00000200
	CloneFiles         = 0x00000400
	CloneSighand       = 0x00000800
	CloneThread        = 0x00010000
	CloneSysvsem       = 0x00040000
	CloneSettls        = 0x00080000
	CloneParentSettid  = 0x00100000
	CloneChildCleartid = 0x00200000

	// WorkerCloneFlags is the exact flag set spec §4.7 specifies for
	// spawning a worker thread.
	WorkerCloneFlags = CloneVM | CloneFS | CloneFiles | CloneSighand |
		CloneThread | CloneSysvsem | CloneSettls | CloneParentSettid | CloneChildCleartid
)

// CloneArgs mirrors struct clone_args for the clone3(2) syscall (the
// "newest struct-argument variant" spec §4.2 names).
type CloneArgs struct {
	Flags      uint64
	PidFD      uint64
	ChildTID   uint64
	ParentTID  uint64
	ExitSignal uint64
	Stack      uint64
	StackSize  uint64
	TLS        uint64
}

// Clone3 issues clone3(2) with the given arguments. On success in the
// parent, returns the child's thread id. The child returns from this
// same call with tid == 0 and must not use any Go runtime facility
// until it has established its own execution environment — which is
// exactly the property that makes this call unsuitable as burstpool's
// actual worker-spawn path (see the file doc comment above).
func Clone3(args *CloneArgs) (tid int, isChild bool, err error) {
	const sysClone3 = 435
	r, _, errno := unix.RawSyscall(sysClone3, uintptr(unsafe.Pointer(args)), unsafe.Sizeof(*args), 0)
	if errno != 0 {
		return -1, false, Errno(errno)
	}
	if r == 0 {
		return 0, true, nil
	}
	return int(r), false, nil
}
