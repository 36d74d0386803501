// relax_amd64.go — x86-64 PAUSE instruction, adapted directly from
// ring24/relax_amd64.go (teacher).

//go:build amd64 && !noasm && !nocgo

package sysx

/*
#ifdef __x86_64__
static inline void cpu_pause() {
    __asm__ __volatile__("pause" ::: "memory");
}
#else
#error "This file requires x86-64 architecture"
#endif
*/
import "C"

// Relax emits the PAUSE instruction, hinting to the processor that the
// calling thread is in a busy-wait loop (spec §2 item 1: "arch_cpu_relax").
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Relax() {
	C.cpu_pause()
}
