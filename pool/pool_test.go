package pool

import (
	"runtime"
	"sync/atomic"
	"testing"
	"unsafe"
)

func mix64(x uint64) uint64 {
	z := x + 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func calcResult(iter, job uint64) uint64 {
	x := mix64(iter ^ job)
	spins := uint32(x & 0xFF)
	for i := uint32(0); i < spins; i++ {
		x = mix64(x)
	}
	return x
}

// stressKernel mirrors the original driver's stress_kernel: it touches
// 128 words of scratch before writing the result, exercising the same
// cache/stack pressure the reference measures (SPEC_FULL.md §4).
func stressKernel(dst *uint64, iter, job uint64) {
	var scratch [128]uint64
	for i := range scratch {
		scratch[i] = iter + job + uint64(i)
	}
	*dst = calcResult(iter, job)
}

func TestEcho(t *testing.T) {
	p := New(Options{Capacity: 4})
	if !p.IsValid() {
		t.Fatalf("pool construction failed")
	}
	defer p.Drop()

	out := make([]uint64, 4)
	jobs := make([]Job, 4)
	for i := range jobs {
		jobs[i] = Job{A0: int64(uintptr(unsafe.Pointer(&out[i]))), A1: int64(i + 1)}
	}

	p.Dispatch(func(a0, a1, a2, a3, a4, a5 int64) {
		*(*uint64)(unsafe.Pointer(uintptr(a0))) = uint64(a1)
	}, jobs)
	p.Join()

	want := []uint64{1, 2, 3, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestVariableLoadStress(t *testing.T) {
	if testing.Short() {
		t.Skip("stress scenario skipped in short mode")
	}
	const capacity = 15
	const iterations = 5000

	p := New(Options{Capacity: capacity})
	if !p.IsValid() {
		t.Fatalf("pool construction failed")
	}
	defer p.Drop()

	output := make([]uint64, capacity)

	for iter := 0; iter < iterations; iter++ {
		jobs := capacity
		switch iter % 5 {
		case 1:
			jobs = capacity / 2
		case 2:
			jobs = 1
		case 3:
			jobs = (capacity * 3) / 4
		}

		batch := make([]Job, jobs)
		iterU := uint64(iter)
		for j := 0; j < jobs; j++ {
			batch[j] = Job{
				A0: int64(uintptr(unsafe.Pointer(&output[j]))),
				A1: int64(iterU),
				A2: int64(j),
			}
		}

		p.Dispatch(func(a0, a1, a2, a3, a4, a5 int64) {
			stressKernel((*uint64)(unsafe.Pointer(uintptr(a0))), uint64(a1), uint64(a2))
		}, batch)
		p.Join()

		for j := 0; j < jobs; j++ {
			got := output[j]
			want := calcResult(iterU, uint64(j))
			if got != want {
				t.Fatalf("iter %d job %d: got %d, want %d", iter, j, got, want)
			}
		}
	}

	stats := p.Stats()
	t.Logf("max dispatch ns: %d, max join ns: %d", stats.MaxDispatchNS, stats.MaxJoinNS)
}

func TestOversubscription(t *testing.T) {
	capacity := 2 * runtime.NumCPU()
	p := New(Options{Capacity: capacity})
	if !p.IsValid() {
		t.Fatalf("pool construction failed")
	}
	defer p.Drop()

	jobs := make([]Job, capacity)
	for cycle := 0; cycle < 10; cycle++ {
		p.Dispatch(func(a0, a1, a2, a3, a4, a5 int64) {}, jobs)
		p.Join()
	}
}

func TestRepeatDispatchWithDifferentKernels(t *testing.T) {
	if testing.Short() {
		t.Skip("skipped in short mode")
	}
	const capacity = 4
	p := New(Options{Capacity: capacity})
	if !p.IsValid() {
		t.Fatalf("pool construction failed")
	}
	defer p.Drop()

	out := make([]uint64, capacity)
	jobs := make([]Job, capacity)
	for i := range jobs {
		jobs[i] = Job{A0: int64(uintptr(unsafe.Pointer(&out[i]))), A1: int64(i)}
	}

	double := func(a0, a1, a2, a3, a4, a5 int64) {
		*(*uint64)(unsafe.Pointer(uintptr(a0))) = uint64(a1) * 2
	}
	square := func(a0, a1, a2, a3, a4, a5 int64) {
		*(*uint64)(unsafe.Pointer(uintptr(a0))) = uint64(a1) * uint64(a1)
	}

	for i := 0; i < 1000; i++ {
		k := double
		if i%2 == 1 {
			k = square
		}
		p.Dispatch(k, jobs)
		p.Join()
		for j := range out {
			var want uint64
			if i%2 == 0 {
				want = uint64(j) * 2
			} else {
				want = uint64(j) * uint64(j)
			}
			if out[j] != want {
				t.Fatalf("iter %d job %d: got %d, want %d", i, j, out[j], want)
			}
		}
	}
}

func TestReentrantDispatch(t *testing.T) {
	const capacity = 4
	p := New(Options{Capacity: capacity})
	if !p.IsValid() {
		t.Fatalf("pool construction failed")
	}
	defer p.Drop()

	jobs := make([]Job, capacity)
	for k := 0; k < 50; k++ {
		p.Dispatch(func(a0, a1, a2, a3, a4, a5 int64) {}, jobs)
		p.Join()
		if p.block.LoadWorkAvailable() != 0 || p.block.LoadWorkDoneAcquire() != 0 || p.block.LoadShutdown() != 0 {
			t.Fatalf("iteration %d: coordination words not settled", k)
		}
	}
}

func TestPartialBatch(t *testing.T) {
	const capacity = 8
	p := New(Options{Capacity: capacity})
	if !p.IsValid() {
		t.Fatalf("pool construction failed")
	}
	defer p.Drop()

	var completed atomic.Int64
	jobs := make([]Job, 3)
	p.Dispatch(func(a0, a1, a2, a3, a4, a5 int64) {
		completed.Add(1)
	}, jobs)
	p.Join()
	if completed.Load() != 3 {
		t.Fatalf("completed = %d, want 3", completed.Load())
	}
}
