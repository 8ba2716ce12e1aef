package concurrent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatcherCloseWaitsForAllTasks(t *testing.T) {
	p := NewThreadPool(4)
	b := p.Batcher(64)

	var done atomic.Int32
	for range 64 {
		b.Submit(func() {
			time.Sleep(100 * time.Microsecond)
			done.Add(1)
		})
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := done.Load(); got != 64 {
		t.Errorf("completed %d tasks before Close returned, want 64", got)
	}
}

func TestBatcherRespectsWorkerLimit(t *testing.T) {
	p := NewThreadPool(2)
	b := p.Batcher(16)

	var active, peak atomic.Int32
	for range 16 {
		b.Submit(func() {
			n := active.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		})
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak parallel tasks = %d, want <= 2", got)
	}
}

func TestBatcherRecoversPanic(t *testing.T) {
	b := NewThreadPool(2).Batcher(3)
	b.Submit(func() {})
	b.Submit(func() { panic("bad height function") })
	b.Submit(func() {})

	if err := b.Close(); !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("Close err = %v, want ErrTaskPanic", err)
	}
}

func TestSubmitResolvesFuture(t *testing.T) {
	p := NewThreadPool(1)
	f := Submit(p, func() (int, error) { return 42, nil })

	v, err := f.Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("Wait = (%d, %v), want (42, nil)", v, err)
	}
	if !f.IsDone() {
		t.Error("IsDone() = false after Wait")
	}
}

func TestSubmitPanicBecomesError(t *testing.T) {
	f := Submit(NewThreadPool(1), func() (string, error) { panic("nope") })
	if _, err := f.Wait(context.Background()); !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("err = %v, want ErrTaskPanic", err)
	}
}

func TestFutureWaitHonoursContext(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want Canceled", err)
	}

	f.Complete(1, nil)
	f.Complete(2, errors.New("ignored"))
	if v, err := f.Wait(context.Background()); v != 1 || err != nil {
		t.Errorf("Wait = (%d, %v), want (1, nil)", v, err)
	}
}

func TestCallRecoversPanic(t *testing.T) {
	v, err := Call(func() (int, error) { return 7, nil })
	if v != 7 || err != nil {
		t.Fatalf("Call = (%d, %v), want (7, nil)", v, err)
	}
	if _, err := Call(func() (int, error) { panic("boom") }); !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("err = %v, want ErrTaskPanic", err)
	}
}

func TestGoLimitsJobs(t *testing.T) {
	p := NewThreadPool(2)
	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		p.Go(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}
