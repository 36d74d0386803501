// layout.go — per-slot geometry (spec §4.1). Pure arithmetic: no
// allocation, no syscalls. Kept as a standalone package the way the
// teacher keeps wire-format offset math (evm_triarb's ring24 slot
// struct) separate from the code that maps and protects the memory.
package layout

import "burstpool/constants"

// Field byte-offsets within a slot, relative to the slot base. Mirrors
// the table in spec §4.1.
const (
	OffTLSImage    = 0                                     // T = 256 B, static thread-local image
	OffTCB         = OffTLSImage + constants.TLSImageSize  // C = 64 B, thread-control block
	OffChildTID    = OffTCB + constants.TCBSize            // 4 B, child-thread-id word
	offPadding1    = OffChildTID + 4                       // 4 B padding
	OffWorkerID    = offPadding1 + 4                       // 8 B, worker id
	OffMagic       = OffWorkerID + 8                       // 8 B, magic sentinel
	headerRawSize  = OffMagic + 8
)

// HeaderSize is the header region rounded up to the next page boundary
// (spec §4.1: "→ next 4096 boundary").
var HeaderSize = roundUp(headerRawSize, constants.PageSize)

// Slot describes the byte geometry of one worker's slot for a given
// compile-time stack size (spec requires it be "a positive multiple of
// 4096").
type Slot struct {
	StackSize int
}

// GuardFrontOffset is the offset of the front guard page from the slot
// base.
func (s Slot) GuardFrontOffset() int { return HeaderSize }

// StackOffset is the offset of the primary stack's base (it grows down
// from StackOffset+StackSize).
func (s Slot) StackOffset() int { return HeaderSize + constants.PageSize }

// GuardBackOffset is the offset of the back guard page.
func (s Slot) GuardBackOffset() int { return s.StackOffset() + s.StackSize }

// AltStackOffset is the offset of the alternate signal stack.
func (s Slot) AltStackOffset() int { return s.GuardBackOffset() + constants.PageSize }

// Size is the total slot size, rounded up to the next page boundary
// (spec §4.1: "trailing padding → next 4096 boundary").
func (s Slot) Size() int {
	raw := s.AltStackOffset() + constants.AltStackSize
	return roundUp(raw, constants.PageSize)
}

func roundUp(n, page int) int {
	if n%page == 0 {
		return n
	}
	return (n/page + 1) * page
}
