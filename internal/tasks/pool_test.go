package tasks

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(2, 8, testLogger())
	p.Start()
	defer p.Stop()

	var ran int32
	var dones []<-chan error
	for i := 0; i < 5; i++ {
		done, err := p.Submit("count", func() error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		dones = append(dones, done)
	}
	for _, done := range dones {
		if err := <-done; err != nil {
			t.Errorf("task error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&ran); got != 5 {
		t.Errorf("expected 5 runs, got %d", got)
	}
}

func TestPoolDeliversTaskError(t *testing.T) {
	p := NewPool(1, 4, testLogger())
	p.Start()
	defer p.Stop()

	want := errors.New("boom")
	done, err := p.Submit("failing", func() error { return want })
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := <-done; !errors.Is(got, want) {
		t.Errorf("expected task error, got %v", got)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const workers = 2
	p := NewPool(workers, 16, testLogger())
	p.Start()
	defer p.Stop()

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		done, err := p.Submit("concurrent", func() error {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		})
		if err != nil {
			// Queue full is acceptable under this load; skip.
			continue
		}
		wg.Add(1)
		go func(done <-chan error) {
			defer wg.Done()
			<-done
		}(done)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("concurrency exceeded worker count: peak %d", got)
	}
}

func TestPoolRejectsWhenQueueFull(t *testing.T) {
	p := NewPool(1, 1, testLogger())
	p.Start()
	defer p.Stop()

	block := make(chan struct{})
	p.Submit("blocker", func() error { <-block; return nil })

	// Fill the queue, then expect rejection.
	rejected := false
	for i := 0; i < 4; i++ {
		if _, err := p.Submit("filler", func() error { return nil }); err != nil {
			rejected = true
			break
		}
	}
	close(block)
	if !rejected {
		t.Error("expected a queue-full rejection")
	}
}

func TestPoolStopRejectsNewWork(t *testing.T) {
	p := NewPool(1, 4, testLogger())
	p.Start()
	p.Stop()

	if _, err := p.Submit("late", func() error { return nil }); err == nil {
		t.Error("expected rejection after Stop")
	}
}

func TestPoolStopIsIdempotent(t *testing.T) {
	p := NewPool(1, 4, testLogger())
	p.Start()
	p.Stop()
	p.Stop()
}
