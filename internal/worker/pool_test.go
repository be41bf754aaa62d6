package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubResult struct {
	err error
}

func (r *stubResult) GetError() error { return r.err }

// stubJob implements Job
type stubJob struct {
	duration time.Duration
	fail     bool
	executed *int32
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{err: errors.New("verification failed")}
	}
	return &stubResult{}
}

func TestNewPool_WorkerClamp(t *testing.T) {
	if got := NewPool(5).workers; got != 5 {
		t.Errorf("workers = %d, want 5", got)
	}
	if got := NewPool(0).workers; got != 1 {
		t.Errorf("zero workers should clamp to 1, got %d", got)
	}
	if got := NewPool(-1).workers; got != 1 {
		t.Errorf("negative workers should clamp to 1, got %d", got)
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed int32
	count := 10
	for i := 0; i < count; i++ {
		pool.Submit(&stubJob{executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executions, got %d", count, executed)
	}
}

// gauge counts concurrent executions
type gauge struct {
	mu      sync.Mutex
	current int32
	peak    int32
}

type gaugedJob struct {
	g        *gauge
	duration time.Duration
}

func (j *gaugedJob) Execute(ctx context.Context) Result {
	j.g.mu.Lock()
	j.g.current++
	if j.g.current > j.g.peak {
		j.g.peak = j.g.current
	}
	j.g.mu.Unlock()

	time.Sleep(j.duration)

	j.g.mu.Lock()
	j.g.current--
	j.g.mu.Unlock()
	return &stubResult{}
}

func TestPool_ConcurrencyBound(t *testing.T) {
	workers := 4
	pool := NewPool(workers)
	pool.Start()

	g := &gauge{}
	for i := 0; i < 20; i++ {
		pool.Submit(&gaugedJob{g: g, duration: 10 * time.Millisecond})
	}
	pool.Wait()

	g.mu.Lock()
	peak := g.peak
	g.mu.Unlock()

	if peak > int32(workers) {
		t.Errorf("peak concurrency %d exceeded %d workers", peak, workers)
	}
}

func TestPool_CollectsFailures(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&stubJob{fail: true})
	pool.Submit(&stubJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed result, got %d", failed)
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

func TestPool_ShutdownAbortsInFlight(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	started := make(chan struct{})
	var once sync.Once
	pool.Submit(&signalJob{started: started, once: &once, duration: 200 * time.Millisecond})
	<-started

	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		for range pool.out {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not drain the pool")
	}
}

type signalJob struct {
	started  chan struct{}
	once     *sync.Once
	duration time.Duration
}

func (j *signalJob) Execute(ctx context.Context) Result {
	j.once.Do(func() { close(j.started) })
	select {
	case <-time.After(j.duration):
	case <-ctx.Done():
	}
	return &stubResult{}
}
