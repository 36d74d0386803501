// ids_linux_amd64.go — gettid/getpid/tgkill, grounded on
// google-gvisor/pkg/sighandling/sighandling_linux_unsafe.go's KillItself
// and the teacher's own SYS_GETTID use in ring24/setaffinity_linux.go's
// sibling packages.

//go:build linux && amd64

package sysx

import "golang.org/x/sys/unix"

// Gettid returns the calling OS thread's kernel thread id.
func Gettid() int {
	tid, _, _ := unix.RawSyscall(unix.SYS_GETTID, 0, 0, 0)
	return int(tid)
}

// Getpid returns the process id.
func Getpid() int {
	return unix.Getpid()
}

// Tgkill sends signal sig to thread tid within process pid (spec §4.9:
// "re-raise SIGSEGV to the current thread using process-id and
// thread-id with tgkill").
func Tgkill(pid, tid, sig int) error {
	_, _, errno := unix.RawSyscall(unix.SYS_TGKILL, uintptr(pid), uintptr(tid), uintptr(sig))
	if errno != 0 {
		return Errno(errno)
	}
	return nil
}
