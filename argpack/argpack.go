// argpack.go — argument arena (spec §4.5): a contiguous array of
// fixed-size, eight-word records that dispatch copies job arguments
// into ahead of publishing them to workers. Same fixed-record,
// zero-copy-view discipline as ring24.Ring's slot array, just without
// the ring's wraparound (a burst is claimed once, not recycled through
// a head/tail cursor).
package argpack

import "unsafe"

// Size is the fixed record size (spec §4.5: "eight 64-bit slots each").
const Size = 8 * 8

// Pack is one job's argument record: six integer-class arguments plus
// two reserved slots, matching the six-register calling convention
// coord.Kernel invokes with.
type Pack struct {
	A0, A1, A2, A3, A4, A5 int64
	_, _                   int64
}

// Arena is a zero-initialized, fixed-capacity array of Packs carved out
// of pool-owned mapped memory.
type Arena struct {
	packs []Pack
}

// AtOffset views a byte region at the given offset, sized for capacity
// packs, as an Arena. The caller owns the backing memory's lifetime.
func AtOffset(region []byte, off, capacity int) Arena {
	p := (*Pack)(unsafe.Pointer(&region[off]))
	return Arena{packs: unsafe.Slice(p, capacity)}
}

// Set writes job i's argument pack.
func (a Arena) Set(i int, p Pack) { a.packs[i] = p }

// Get reads job i's argument pack.
func (a Arena) Get(i int) Pack { return a.packs[i] }

// Len returns the arena's capacity.
func (a Arena) Len() int { return len(a.packs) }
