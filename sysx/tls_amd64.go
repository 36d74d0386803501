// tls_amd64.go — thread-pointer intrinsics (spec §4.2: "arch_thread_pointer
// (read the thread-pointer register)" and "arch_tls_load_i64[offset]").
// Implemented in Plan 9 assembly (tls_amd64.s) since %fs-relative reads
// have no Go-level spelling. Exposed for spec-surface completeness; the
// pool's actual worker-id lookup uses the gettid-keyed table in worker
// (see SPEC_FULL.md §1) rather than these, since the value %fs currently
// holds on a goroutine's OS thread is the Go runtime's own TLS, not a
// slot burstpool controls.

//go:build amd64

package sysx

// ThreadPointer returns the value of the FS segment base on the calling
// OS thread.
func ThreadPointer() uintptr

// TLSLoadI64 reads a 64-bit integer at the given byte offset (signed)
// from the thread pointer, i.e. the equivalent of a bare `mov
// %fs:offset, reg` on x86-64.
func TLSLoadI64(offset int64) int64
