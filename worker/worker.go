// ════════════════════════════════════════════════════════════════════
// WORKER — pinned claim-loop consumer for burst dispatch
// ────────────────────────────────────────────────────────────────────
// Ports ring24.PinnedConsumer's goroutine-plus-LockOSThread-plus-
// setAffinity shape onto the pool's SPMC claim protocol (spec §4.7,
// §4.8). A bare clone(2)'d thread can't host Go code — the same wall
// other_examples/xyproto-vibe67__parallel_unix.go's CloneThread hits —
// so each worker is a goroutine pinned to one OS thread instead of a
// raw kernel thread running a hand-rolled entry point.
// ════════════════════════════════════════════════════════════════════

package worker

import (
	"runtime"
	"sync"
	"sync/atomic"

	"burstpool/argpack"
	"burstpool/constants"
	"burstpool/coord"
	"burstpool/fault"
	"burstpool/sysx"
)

// Descriptor is the per-worker startup packet (spec §4.7 step 1: "the
// stack-top header written by the parent"). Reduced to the fields that
// still mean something once spawn is a goroutine rather than a raw
// clone: there is no parent stack to read a header off of, so the
// pool constructs one of these directly and passes it to Spawn.
type Descriptor struct {
	ID      int
	Block   *coord.Block
	Args    argpack.Arena
	Pinned  bool
	CPUMask sysx.CPUMask
}

var (
	tidTable  [constants.MaxWorkers]int32
	tidToSlot sync.Map // int32 gettid -> int worker id
)

// Spawn starts a worker goroutine for d and blocks until it has
// installed itself in the tid table (just before it enters the claim
// loop), so that a caller sees IDFromTID succeed for it immediately
// after Spawn returns.
func Spawn(d Descriptor) (done <-chan struct{}) {
	ready := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if d.Pinned {
			sysx.SetAffinity(d.CPUMask)
		}

		tid := int32(sysx.Gettid())
		tidTable[d.ID] = tid
		tidToSlot.Store(tid, d.ID)
		defer tidToSlot.Delete(tid)

		fault.Register(d.ID, tid)
		defer fault.Unregister(d.ID)

		close(ready)
		ClaimLoop(d.ID, d.Block, d.Args)
	}()
	<-ready
	return doneCh
}

// CurrentID returns the worker id of the calling OS thread, or -1 if
// the calling thread is not a live worker (spec §7: "Inside a kernel, a
// helper reads the current worker id from thread-pointer-relative
// storage, returning -1 when the magic sentinel does not match" — here
// realized as a gettid-keyed lookup rather than a %fs:-relative read;
// see SPEC_FULL.md §1).
func CurrentID() int {
	return IDFromTID(int32(sysx.Gettid()))
}

// IDFromTID returns the worker id owning OS thread tid, or -1 if tid
// does not belong to any live worker (spec §4.9 step 1: "if the magic
// sentinel there does not equal the expected constant, the id is -1").
func IDFromTID(tid int32) int {
	v, ok := tidToSlot.Load(tid)
	if !ok {
		return -1
	}
	return v.(int)
}

// ClaimLoop is the SPMC work-claim protocol (spec §4.8). Runs until
// S.shutdown is observed set.
//
//go:norace
//go:nocheckptr
func ClaimLoop(id int, s *coord.Block, args argpack.Arena) {
	spins := 0
	for {
		if s.LoadShutdown() != 0 {
			return
		}

		if s.LoadWorkAvailable() > 0 {
			old := s.ClaimWorkAvailable()
			if old > 0 {
				jobIdx := old - 1
				invoke(id, s, args, jobIdx)
				s.FetchSubWorkDone()
				spins = 0
				continue
			}
			// The claim raced and lost: the counter went negative.
			// Normalize it back to zero unless a new dispatch already
			// intervened.
			s.NormalizeWorkAvailable(old)
		}

		if spins++; spins < constants.SpinBudget {
			sysx.Relax()
			continue
		}
		spins = 0
		sysx.FutexWaitAddr(s.WorkAvailableAddr(), 0, true)
	}
}

func invoke(id int, s *coord.Block, args argpack.Arena, jobIdx int32) {
	p := args.Get(int(jobIdx))
	k := s.Kernel()
	fault.Guard(id, func() {
		k(p.A0, p.A1, p.A2, p.A3, p.A4, p.A5)
	})
}

// TID reads a worker's registered OS thread id. Teardown does not use
// it; pool.Drop waits on each worker's done channel instead.
func TID(id int) int32 {
	return atomic.LoadInt32(&tidTable[id])
}
