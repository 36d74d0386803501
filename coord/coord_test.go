package coord

import (
	"testing"
	"unsafe"

	"burstpool/constants"
)

func TestBlockCacheLineIsolation(t *testing.T) {
	var b Block
	line1 := unsafe.Offsetof(b.workAvailable)
	line2 := unsafe.Offsetof(b.workDone)
	if line2-line1 < constants.CacheLineSize {
		t.Fatalf("workDone shares a cache line with workAvailable: offsets %d, %d", line1, line2)
	}
}

func TestInitialStateIsZero(t *testing.T) {
	var b Block
	if b.LoadWorkAvailable() != 0 || b.LoadShutdown() != 0 || b.LoadWorkDoneAcquire() != 0 {
		t.Fatalf("Block did not zero-initialize")
	}
}

func TestDispatchOrderingWords(t *testing.T) {
	var b Block
	b.StoreWorkDoneMonotonic(4)
	b.StoreWorkAvailableRelease(4)
	if b.LoadWorkDoneAcquire() != 4 || b.LoadWorkAvailable() != 4 {
		t.Fatalf("dispatch words not published correctly")
	}
}

func TestClaimProtocol(t *testing.T) {
	var b Block
	b.StoreWorkAvailableRelease(2)

	old := b.ClaimWorkAvailable()
	if old != 2 {
		t.Fatalf("first claim: old = %d, want 2", old)
	}
	old = b.ClaimWorkAvailable()
	if old != 1 {
		t.Fatalf("second claim: old = %d, want 1", old)
	}
	// Third claim races and loses: counter goes negative.
	old = b.ClaimWorkAvailable()
	if old != 0 {
		t.Fatalf("losing claim: old = %d, want 0", old)
	}
	if !b.NormalizeWorkAvailable(old) {
		t.Fatalf("NormalizeWorkAvailable failed to reset the counter")
	}
	if b.LoadWorkAvailable() != 0 {
		t.Fatalf("counter not normalized back to 0")
	}
}

func TestKernelRoundTrip(t *testing.T) {
	var b Block
	var got [3]int64
	b.SetKernel(func(a0, a1, a2, a3, a4, a5 int64) {
		got[0], got[1], got[2] = a0, a1, a2
	})
	b.Kernel()(1, 2, 3, 0, 0, 0)
	if got != [3]int64{1, 2, 3} {
		t.Fatalf("kernel round-trip mismatch: %v", got)
	}
}
