package layout

import (
	"testing"

	"burstpool/constants"
)

func TestOffsetsMatchTable(t *testing.T) {
	if OffTLSImage != 0 {
		t.Fatalf("OffTLSImage = %d, want 0", OffTLSImage)
	}
	if OffTCB != constants.TLSImageSize {
		t.Fatalf("OffTCB = %d, want %d", OffTCB, constants.TLSImageSize)
	}
	if OffChildTID != OffTCB+constants.TCBSize {
		t.Fatalf("OffChildTID = %d, want %d", OffChildTID, OffTCB+constants.TCBSize)
	}
	if OffWorkerID != OffChildTID+8 {
		t.Fatalf("OffWorkerID = %d, want %d", OffWorkerID, OffChildTID+8)
	}
	if OffMagic != OffWorkerID+8 {
		t.Fatalf("OffMagic = %d, want %d", OffMagic, OffWorkerID+8)
	}
}

func TestHeaderSizeIsPageAligned(t *testing.T) {
	if HeaderSize%constants.PageSize != 0 {
		t.Fatalf("HeaderSize %d not page-aligned", HeaderSize)
	}
	if HeaderSize < headerRawSize {
		t.Fatalf("HeaderSize %d smaller than raw header %d", HeaderSize, headerRawSize)
	}
}

func TestSlotGeometryOrdering(t *testing.T) {
	s := Slot{StackSize: constants.PageSize}
	if s.GuardFrontOffset() != HeaderSize {
		t.Fatalf("GuardFrontOffset = %d, want %d", s.GuardFrontOffset(), HeaderSize)
	}
	if s.StackOffset() != s.GuardFrontOffset()+constants.PageSize {
		t.Fatalf("StackOffset misplaced")
	}
	if s.GuardBackOffset() != s.StackOffset()+s.StackSize {
		t.Fatalf("GuardBackOffset misplaced")
	}
	if s.AltStackOffset() != s.GuardBackOffset()+constants.PageSize {
		t.Fatalf("AltStackOffset misplaced")
	}
	if s.Size()%constants.PageSize != 0 {
		t.Fatalf("Slot.Size() %d not page-aligned", s.Size())
	}
}

func TestSlotSizeGrowsWithStackSize(t *testing.T) {
	small := Slot{StackSize: constants.PageSize}
	big := Slot{StackSize: 4 * constants.PageSize}
	if big.Size() <= small.Size() {
		t.Fatalf("bigger stack size should yield a bigger slot")
	}
}
