// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: sysx.go — Architecture-Parametric Syscall Surface
//
// Purpose:
//   - Exposes the exact kernel calls the burst pool needs (spec §4.2/§6) with
//     no libc dependency, mirroring ring24's per-concern arch-file split
//     (relax_amd64.go / relax_arm64.go / relax_stub.go, setaffinity_linux.go).
//
// Notes:
//   - Syscall wrappers report failure through an error value (alongside a
//     result where there is one); that error is an Errno holding the
//     kernel error number.
//   - Only linux/amd64 is implemented (spec §1: "only the x86-64 backend is
//     specified because only it is realized in the source"). Other
//     GOOS/GOARCH combinations fail at compile time — see unsupported.go.
// ─────────────────────────────────────────────────────────────────────────────

package sysx

import "fmt"

// Errno wraps a kernel error number, stored as the positive errno value
// (e.g. Errno(2) for ENOENT). Callers that need the raw errno use
// int(err.(Errno)).
type Errno int

func (e Errno) Error() string {
	return fmt.Sprintf("sysx: errno %d", int(e))
}
