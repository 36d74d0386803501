// coord.go — shared coordination block (spec §4.4). Two cache lines:
// one carrying the words the orchestrator writes and workers read
// (work_available, shutdown, func_ptr), the other carrying the single
// word workers write back (work_done). Isolating them onto separate
// lines the way ring24.Ring keeps its producer and consumer indices
// apart is what stops false sharing from turning dispatch/claim/join
// into a cache-coherence ping-pong.
package coord

import (
	"sync/atomic"
	"unsafe"

	"burstpool/constants"
)

// Block is the shared coordination block mapped inside the pool's
// arena. Must never be copied after first use; callers hold a pointer
// into mapped memory.
type Block struct {
	// Line 1 — producer-written.
	workAvailable int32
	shutdown      int32
	funcPtr       unsafe.Pointer
	_             [constants.CacheLineSize - 4 - 4 - 8]byte

	// Line 2 — consumer-written.
	workDone int32
	_        [constants.CacheLineSize - 4]byte
}

// Size is the on-wire size of Block, used by the arena sizing math in
// spec §4.6 step 1.
const Size = unsafe.Sizeof(Block{})

// AtOffset views a byte region at the given offset as a *Block. The
// caller owns the backing memory's lifetime.
func AtOffset(region []byte, off int) *Block {
	return (*Block)(unsafe.Pointer(&region[off]))
}

// Kernel is the six-integer-argument function signature every job's
// func_ptr resolves to (spec §4.8: "invoke it with the six
// integer-class slots ... in the platform's standard integer-argument
// registers").
type Kernel func(a0, a1, a2, a3, a4, a5 int64)

// SetKernel publishes the kernel function pointer. A plain store
// suffices — spec §4.6 dispatch: "Publish func_ptr (plain store is
// sufficient since it precedes the release store on work_available)".
// A Go func value is itself already a single machine word (a pointer to
// a funcval), so it is stored directly rather than boxed — spec §9
// design notes: "no trait-object indirection is needed and none should
// be introduced (every extra indirection shows up in the per-batch
// nanosecond budget)".
func (b *Block) SetKernel(k Kernel) {
	atomic.StorePointer(&b.funcPtr, *(*unsafe.Pointer)(unsafe.Pointer(&k)))
}

// Kernel reads back the currently published kernel function pointer.
func (b *Block) Kernel() Kernel {
	p := atomic.LoadPointer(&b.funcPtr)
	var k Kernel
	*(*unsafe.Pointer)(unsafe.Pointer(&k)) = p
	return k
}

// WorkAvailableAddr exposes the address of work_available for futex
// wait/wake calls.
func (b *Block) WorkAvailableAddr() *uint32 {
	return (*uint32)(unsafe.Pointer(&b.workAvailable))
}

func (b *Block) LoadWorkAvailable() int32 { return atomic.LoadInt32(&b.workAvailable) }

// StoreWorkAvailableRelease publishes num_jobs with release ordering
// (spec §4.6 dispatch step 4).
func (b *Block) StoreWorkAvailableRelease(n int32) { atomic.StoreInt32(&b.workAvailable, n) }

// ClaimWorkAvailable performs the fetch-sub(1, acq_rel) a worker issues
// to attempt a claim (spec §4.8 step 2).
func (b *Block) ClaimWorkAvailable() int32 { return atomic.AddInt32(&b.workAvailable, -1) + 1 }

// NormalizeWorkAvailable is the compare-and-swap a worker attempts when
// its claim raced and lost (spec §4.8 step 2, "old ≤ 0"): it resets the
// counter to 0 only if nothing else has touched it since.
func (b *Block) NormalizeWorkAvailable(old int32) bool {
	return atomic.CompareAndSwapInt32(&b.workAvailable, old-1, 0)
}

func (b *Block) LoadShutdown() int32 { return atomic.LoadInt32(&b.shutdown) }

// StoreShutdownRelease publishes the shutdown flag (spec §4.6 teardown
// step 1: "publish shutdown = 1 (release)").
func (b *Block) StoreShutdownRelease() { atomic.StoreInt32(&b.shutdown, 1) }

func (b *Block) LoadWorkDoneAcquire() int32 { return atomic.LoadInt32(&b.workDone) }

// StoreWorkDoneMonotonic sets work_done = num_jobs with no ordering
// requirement beyond program order (spec §4.6 dispatch step 4:
// "Store work_done = num_jobs (monotonic)").
func (b *Block) StoreWorkDoneMonotonic(n int32) { atomic.StoreInt32(&b.workDone, n) }

// FetchSubWorkDone performs the fetch-sub(1, acq_rel) a worker issues
// after completing a job (spec §4.8 step 2).
func (b *Block) FetchSubWorkDone() int32 { return atomic.AddInt32(&b.workDone, -1) + 1 }
