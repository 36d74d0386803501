//go:build !(linux && amd64)

package sysx

// burstpool's syscall surface implements only the x86-64 Linux ABI (spec
// §1: "only the x86-64 backend is specified because only it is realized
// in the source"). Referencing an undefined identifier here forces a
// compile-time failure on any other GOOS/GOARCH combination instead of
// silently linking a stub that could never satisfy the pool's contract.
var _ = burstpool_sysx_requires_linux_amd64
