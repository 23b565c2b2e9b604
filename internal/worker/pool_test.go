package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubResult struct {
	err error
}

func (r *stubResult) GetError() error { return r.err }

// stubJob counts executions and optionally fails or sleeps.
type stubJob struct {
	fail     bool
	sleep    time.Duration
	executed *int32
	onStart  func()
	onEnd    func()
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.onStart != nil {
		j.onStart()
	}
	if j.onEnd != nil {
		defer j.onEnd()
	}
	if j.sleep > 0 {
		select {
		case <-time.After(j.sleep):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{err: errors.New("job failed")}
	}
	return &stubResult{}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	for _, n := range []int{0, -3} {
		if got := NewPool(n).workers; got != 1 {
			t.Errorf("NewPool(%d).workers = %d, want 1", n, got)
		}
	}
	if got := NewPool(5).workers; got != 5 {
		t.Errorf("NewPool(5).workers = %d", got)
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var executed int32
	const count = 20
	for i := 0; i < count; i++ {
		pool.Submit(&stubJob{executed: &executed})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("Wait() = %d results, want %d", len(results), count)
	}
	if got := atomic.LoadInt32(&executed); got != count {
		t.Errorf("executed %d jobs, want %d", got, count)
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const workers = 4
	pool := NewPool(workers)
	pool.Start()

	var current, peak int32
	for i := 0; i < 24; i++ {
		pool.Submit(&stubJob{
			sleep: 10 * time.Millisecond,
			onStart: func() {
				c := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if c <= p || atomic.CompareAndSwapInt32(&peak, p, c) {
						break
					}
				}
			},
			onEnd: func() { atomic.AddInt32(&current, -1) },
		})
	}
	pool.Wait()

	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("peak concurrency %d exceeded %d workers", got, workers)
	}
}

func TestPool_FailuresStayIsolated(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&stubJob{fail: true})
	pool.Submit(&stubJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("Wait() = %d results, want 2", len(results))
	}
	failures := 0
	for _, res := range results {
		if res.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(&stubJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit after Shutdown blocked")
	}
}

func TestPool_ShutdownCancelsInFlight(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(&stubJob{
		sleep:   time.Second,
		onStart: func() { close(started) },
	})
	<-started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not cancel the in-flight job")
	}
}
