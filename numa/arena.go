// arena.go — NUMA-bound bump arena (spec §4.3). One anonymous mapping,
// optionally bound to a single node with MPOL_BIND, handed out via a
// monotonically advancing offset with mark/reset scoping. Grounded on
// the mmap/mbind wrappers in sysx and the sysfs topology reader
// alongside it in this package; the bump-pointer-with-mark discipline
// mirrors the scoped reuse pattern in ring24.Ring's slot recycling
// (fixed-capacity storage handed out and reclaimed without a
// general-purpose allocator). pool.New is the arena's production
// caller: it builds the whole per-pool region — scratch slots, the
// coordination block, the argument array — as three bump-allocated
// carves out of a single arena rather than three independent mappings.
package numa

import (
	"unsafe"

	"burstpool/sysx"
)

// Arena is a fixed-size region of memory, optionally bound to a single
// NUMA node, handed out via a bump pointer. The zero value is an empty
// arena.
type Arena struct {
	region  []byte
	node    int
	hasNode bool
	off     uintptr
}

// New reserves size bytes. If bindToNode is set, the region is bound to
// node with MPOL_BIND before anything is handed out of it. On any
// failure the returned Arena is the empty zero value and nothing
// remains mapped — per §4.3, "never partially live".
func New(size int, node int, bindToNode bool) (*Arena, error) {
	region, err := sysx.Mmap(size,
		sysx.ProtRead|sysx.ProtWrite,
		sysx.MapPrivate|sysx.MapAnonymous|sysx.MapNorserve|sysx.MapPopulate)
	if err != nil {
		return &Arena{}, err
	}
	if bindToNode {
		sysx.Madvise(region, sysx.MadvHugepage) // best-effort; huge pages are an optimization, not a requirement
		if err := sysx.MbindNode(region, node); err != nil {
			sysx.Munmap(region)
			return &Arena{}, err
		}
	}
	return &Arena{region: region, node: node, hasNode: bindToNode}, nil
}

// Empty reports whether a is the zero-value / failed-construction arena.
func (a *Arena) Empty() bool { return a == nil || a.region == nil }

// Mark is an opaque bump-offset snapshot for ResetTo.
type Mark uintptr

// Mark returns the current bump offset.
func (a *Arena) Mark() Mark { return Mark(a.off) }

// ResetTo rewinds the bump pointer to a previously captured Mark.
func (a *Arena) ResetTo(m Mark) { a.off = uintptr(m) }

// Reset rewinds the bump pointer to the start of the region.
func (a *Arena) Reset() { a.off = 0 }

// Alloc reserves count contiguous T-sized elements aligned to align
// bytes (0 selects the default alignment of 8) and returns a pointer to
// the first one, or nil if the region is exhausted.
func Alloc[T any](a *Arena, count int, align uintptr) *T {
	if a.Empty() || count <= 0 {
		return nil
	}
	if align == 0 {
		align = 8
	}
	var zero T
	elemSize := unsafe.Sizeof(zero)
	base := uintptr(unsafe.Pointer(&a.region[0]))
	cur := base + a.off
	aligned := (cur + align - 1) &^ (align - 1)
	need := aligned - base + elemSize*uintptr(count)
	if need > uintptr(len(a.region)) {
		return nil
	}
	a.off = need
	return (*T)(unsafe.Pointer(aligned))
}

// VerifyPlacement queries the node the arena's first byte actually
// resides on and reports whether it matches the bound node. An empty
// arena, or one constructed without a node, trivially verifies.
func (a *Arena) VerifyPlacement() bool {
	if a.Empty() || !a.hasNode {
		return true
	}
	node, err := sysx.PageNode(a.region)
	if err != nil {
		return false
	}
	return node == a.node
}

// Release unmaps the arena's backing region. Safe to call on an empty
// arena.
func (a *Arena) Release() error {
	if a.Empty() {
		return nil
	}
	err := sysx.Munmap(a.region)
	a.region = nil
	a.hasNode = false
	a.off = 0
	return err
}

// Bytes exposes the raw backing region for callers (layout, coord,
// argpack) that need to carve fixed sub-structures out of it directly
// rather than through the typed bump allocator.
func (a *Arena) Bytes() []byte { return a.region }
