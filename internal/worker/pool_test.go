package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	id      int
	counter *int32
	fail    bool
}

type countResult struct {
	id  int
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	atomic.AddInt32(j.counter, 1)
	if j.fail {
		return &countResult{id: j.id, err: errors.New("failed")}
	}
	return &countResult{id: j.id}
}

func TestPool_Run_AllJobsComplete(t *testing.T) {
	var counter int32
	jobs := make([]Job, 50)
	for i := range jobs {
		jobs[i] = &countJob{id: i, counter: &counter, fail: i%10 == 0}
	}

	results := NewPool(context.Background(), 4).Run(jobs)

	if len(results) != 50 {
		t.Fatalf("Expected 50 results, got %d", len(results))
	}
	if atomic.LoadInt32(&counter) != 50 {
		t.Errorf("Expected 50 executions, got %d", counter)
	}

	failures := 0
	seen := make(map[int]bool)
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
		seen[r.(*countResult).id] = true
	}
	if failures != 5 {
		t.Errorf("Expected 5 failures, got %d", failures)
	}
	if len(seen) != 50 {
		t.Errorf("Expected 50 distinct results, got %d", len(seen))
	}
}

func TestPool_Run_Empty(t *testing.T) {
	results := NewPool(context.Background(), 2).Run(nil)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestNewPool_ClampsWorkers(t *testing.T) {
	p := NewPool(context.Background(), 0)
	if p.workers != 1 {
		t.Errorf("Expected 1 worker, got %d", p.workers)
	}
}

type ctxJob struct{}

func (ctxJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return &countResult{err: ctx.Err()}
	case <-time.After(5 * time.Second):
		return &countResult{}
	}
}

func TestPool_Run_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewPool(ctx, 2).Run([]Job{ctxJob{}, ctxJob{}, ctxJob{}})
	if len(results) != 3 {
		t.Fatalf("Expected a result per job, got %d", len(results))
	}
	for _, r := range results {
		if !errors.Is(r.GetError(), context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", r.GetError())
		}
	}
}
