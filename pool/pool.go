// ════════════════════════════════════════════════════════════════════
// POOL — burst dispatch/join over a fixed set of pinned workers
// ────────────────────────────────────────────────────────────────────
// Ties together numa (arena binding + placement), layout (slot
// geometry), coord (the shared block), argpack (job records) and
// worker (spawn + claim loop) into the construct/dispatch/join/
// teardown lifecycle of §4.6. The dispatch/join spin-and-relax
// discipline is the orchestrator-side mirror of ring24's producer path;
// the difference here is a counted batch rather than an unbounded
// stream.
// ════════════════════════════════════════════════════════════════════

package pool

import (
	"sync/atomic"
	"time"
	"unsafe"

	"burstpool/argpack"
	"burstpool/constants"
	"burstpool/coord"
	"burstpool/debug"
	"burstpool/fault"
	"burstpool/layout"
	"burstpool/numa"
	"burstpool/sysx"
	"burstpool/worker"
)

// Pool is the container of workers plus the memory they share (spec
// GLOSSARY: "Pool"). The zero value is not usable; construct with New,
// ForNode, or ForNodeExcluding.
type Pool struct {
	arena     *numa.Arena
	block     *coord.Block
	args      argpack.Arena
	scratch   []byte // per-worker scratch regions, bracketed by guard pages
	slotGeom  layout.Slot
	capacity  int
	cpuMask   sysx.CPUMask
	pinned    bool
	node      int
	hasNode   bool
	valid     bool
	doneChans []<-chan struct{}

	maxDispatchNS int64 // atomic, nanoseconds
	maxJoinNS     int64 // atomic, nanoseconds
}

// Options configures New. CPUMask and NUMANode are both optional:
// CPUMask takes effect only when Pinned is set, and NUMANode only when
// HasNode is set (a zero NUMANode with HasNode names node 0).
type Options struct {
	Capacity  int
	CPUMask   sysx.CPUMask
	Pinned    bool
	NUMANode  int
	HasNode   bool
	StackSize int // per-worker scratch region size; defaults to constants.ScratchRegionSize
}

// New constructs a pool per spec §4.6. On any failure, returns an empty,
// invalid Pool with nothing left mapped.
func New(opt Options) *Pool {
	fault.Install()

	if opt.StackSize == 0 {
		opt.StackSize = constants.ScratchRegionSize
	}
	slotGeom := layout.Slot{StackSize: opt.StackSize}

	scratchTotal := opt.Capacity * slotGeom.Size()
	totalSize := scratchTotal + int(coord.Size) + opt.Capacity*argpack.Size

	arena, err := numa.New(totalSize, opt.NUMANode, opt.HasNode)
	if err != nil {
		debug.DropError("pool: build arena", err)
		return &Pool{}
	}

	p := &Pool{
		arena:    arena,
		slotGeom: slotGeom,
		capacity: opt.Capacity,
		cpuMask:  opt.CPUMask,
		pinned:   opt.Pinned,
		node:     opt.NUMANode,
		hasNode:  opt.HasNode,
	}

	// The whole region is one arena; scratch, the coordination block and
	// the argument array are three successive bump-allocated carves out
	// of it rather than three independent mappings (spec §2 item 2/7:
	// the pool owns the lifetime of everything the arena backs).
	scratchPtr := numa.Alloc[byte](arena, scratchTotal, constants.PageSize)
	if scratchPtr == nil {
		debug.DropError("pool: carve scratch region", nil)
		arena.Release()
		return &Pool{}
	}
	p.scratch = unsafe.Slice(scratchPtr, scratchTotal)

	for i := 0; i < opt.Capacity; i++ {
		base := i * slotGeom.Size()
		front := p.scratch[base+slotGeom.GuardFrontOffset() : base+slotGeom.GuardFrontOffset()+constants.PageSize]
		back := p.scratch[base+slotGeom.GuardBackOffset() : base+slotGeom.GuardBackOffset()+constants.PageSize]
		if err := sysx.Mprotect(front, sysx.ProtNone); err != nil {
			debug.DropError("pool: guard page", err)
			arena.Release()
			return &Pool{}
		}
		if err := sysx.Mprotect(back, sysx.ProtNone); err != nil {
			debug.DropError("pool: guard page", err)
			arena.Release()
			return &Pool{}
		}
	}

	blockPtr := numa.Alloc[byte](arena, int(coord.Size), constants.CacheLineSize)
	if blockPtr == nil {
		debug.DropError("pool: carve coordination block", nil)
		arena.Release()
		return &Pool{}
	}
	p.block = coord.AtOffset(unsafe.Slice(blockPtr, int(coord.Size)), 0)

	argsTotal := opt.Capacity * argpack.Size
	argsPtr := numa.Alloc[byte](arena, argsTotal, 8)
	if argsPtr == nil {
		debug.DropError("pool: carve argument array", nil)
		arena.Release()
		return &Pool{}
	}
	p.args = argpack.AtOffset(unsafe.Slice(argsPtr, argsTotal), 0, opt.Capacity)

	p.spawnWorkers()
	p.valid = true
	return p
}

// ForNode builds a pool with capacity equal to node's CPU count, pinned
// with node's CPU mask, bound to node (spec §4.10, "for node N").
func ForNode(node int) *Pool {
	topo, err := numa.DetectTopology()
	if err != nil {
		debug.DropError("pool: detect topology", err)
		return &Pool{}
	}
	cpus := topo.CPUsOnNode(node)
	return New(Options{
		Capacity: len(cpus),
		CPUMask:  topo.NodeCPUMask(node),
		Pinned:   true,
		NUMANode: node,
		HasNode:  true,
	})
}

// ForNodeExcluding is ForNode with one CPU cleared from the mask and
// capacity decremented iff that CPU belonged to the node (spec §4.10,
// "for node N excluding CPU c").
func ForNodeExcluding(node, excludeCPU int) *Pool {
	topo, err := numa.DetectTopology()
	if err != nil {
		debug.DropError("pool: detect topology", err)
		return &Pool{}
	}
	mask := topo.NodeCPUMask(node)
	capacity := len(topo.CPUsOnNode(node))
	if mask.Has(excludeCPU) {
		mask = mask.Clear(excludeCPU)
		capacity--
	}
	return New(Options{
		Capacity: capacity,
		CPUMask:  mask,
		Pinned:   true,
		NUMANode: node,
		HasNode:  true,
	})
}

func (p *Pool) spawnWorkers() {
	p.doneChans = make([]<-chan struct{}, p.capacity)
	for i := 0; i < p.capacity; i++ {
		d := worker.Descriptor{
			ID:      i,
			Block:   p.block,
			Args:    p.args,
			Pinned:  p.pinned,
			CPUMask: p.cpuMask,
		}
		p.doneChans[i] = worker.Spawn(d)
	}
}

// IsValid reports whether construction succeeded.
func (p *Pool) IsValid() bool { return p != nil && p.valid }

// Capacity returns the number of workers.
func (p *Pool) Capacity() int { return p.capacity }

// Kernel is the six-integer-argument job function type.
type Kernel = coord.Kernel

// Job is one entry of the args[] array passed to Dispatch.
type Job = argpack.Pack

// Dispatch publishes numJobs argument packs and wakes workers to
// process them (spec §4.6 "Dispatch"). numJobs must be in
// (0, capacity]; the previous batch must already be joined
// (work_done == 0). Both are programming errors in a release build and
// are asserted here rather than silently tolerated.
func (p *Pool) Dispatch(k Kernel, jobs []Job) {
	numJobs := len(jobs)
	if numJobs <= 0 || numJobs > p.capacity {
		panic("pool: dispatch numJobs out of range")
	}
	if p.block.LoadWorkDoneAcquire() != 0 {
		panic("pool: dispatch called before previous batch joined")
	}

	start := monotonicNow()

	for i, j := range jobs {
		p.args.Set(i, j)
	}
	p.block.SetKernel(k)
	p.block.StoreWorkDoneMonotonic(int32(numJobs))
	p.block.StoreWorkAvailableRelease(int32(numJobs))
	sysx.FutexWakeAddr(p.block.WorkAvailableAddr(), numJobs, true)

	recordMax(&p.maxDispatchNS, time.Since(start).Nanoseconds())
}

// Join blocks until every dispatched job has completed (spec §4.6
// "Join"): a pure spin loop on work_done, no futex wait on the
// orchestrator side, since batches are assumed small and short.
func (p *Pool) Join() {
	start := monotonicNow()
	for p.block.LoadWorkDoneAcquire() != 0 {
		sysx.Relax()
	}
	recordMax(&p.maxJoinNS, time.Since(start).Nanoseconds())
}

// Stats is the high-water-mark latency pair returned by Pool.Stats.
type Stats struct {
	MaxDispatchNS int64
	MaxJoinNS     int64
}

// Stats reports the high-water marks for dispatch and join latency
// observed since the last call to Stats (spec.md §8's "Measure max
// dispatch-ns and max join-ns", supplemented into a first-class
// queryable per SPEC_FULL.md §4).
func (p *Pool) Stats() Stats {
	return Stats{
		MaxDispatchNS: atomic.SwapInt64(&p.maxDispatchNS, 0),
		MaxJoinNS:     atomic.SwapInt64(&p.maxJoinNS, 0),
	}
}

// VerifyPlacement reports whether the pool's arena resides on the NUMA
// node it was bound to. Trivially true for a pool constructed without a
// node.
func (p *Pool) VerifyPlacement() bool {
	return p.arena.VerifyPlacement()
}

// ScratchRegion returns the writable interior of worker id's scratch
// region — the memory a kernel can be pointed into to exercise the
// guard-page fault property (spec §8.4).
func (p *Pool) ScratchRegion(id int) []byte {
	base := id * p.slotGeom.Size()
	lo := base + p.slotGeom.GuardFrontOffset() + constants.PageSize
	hi := base + p.slotGeom.GuardBackOffset()
	return p.scratch[lo:hi]
}

// GuardPageAddress returns an address inside worker id's front guard
// page, for tests that deliberately trigger a segmentation fault.
func (p *Pool) GuardPageAddress(id int) uintptr {
	base := id * p.slotGeom.Size()
	off := base + p.slotGeom.GuardFrontOffset()
	return uintptrOf(p.scratch[off:])
}

// Drop tears the pool down (spec §4.6 "Teardown"): publishes shutdown,
// wakes every worker, and waits for each worker goroutine to exit
// before unmapping the arena. Workers are goroutines rather than raw
// kernel threads, so "wait for the child-thread-id word to reach zero"
// is realized as waiting on each worker's done channel — the futex- and
// TLS-based mechanism has no meaning for a thread the Go runtime owns
// (see SPEC_FULL.md §1).
func (p *Pool) Drop() {
	if !p.valid {
		if p.arena != nil {
			p.arena.Release()
		}
		return
	}
	p.block.StoreShutdownRelease()
	sysx.FutexWakeAddr(p.block.WorkAvailableAddr(), p.capacity, true)
	for _, done := range p.doneChans {
		<-done
	}
	p.arena.Release()
	p.valid = false
}

func recordMax(dst *int64, v int64) {
	for {
		cur := atomic.LoadInt64(dst)
		if v <= cur {
			return
		}
		if atomic.CompareAndSwapInt64(dst, cur, v) {
			return
		}
	}
}

func monotonicNow() time.Time { return time.Now() }

func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
