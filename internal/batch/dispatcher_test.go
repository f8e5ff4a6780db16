package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"chainopt/internal/model"
)

func problems(n int) []model.RoutingRequest {
	out := make([]model.RoutingRequest, n)
	for i := range out {
		out[i] = model.RoutingRequest{Algorithm: fmt.Sprintf("p%d", i)}
	}
	return out
}

func TestRunPreservesInputOrder(t *testing.T) {
	d := NewDispatcher(WithWorkers(4))
	results := d.Run(context.Background(), problems(20), func(_ context.Context, req model.RoutingRequest) (*model.RoutingResponse, error) {
		return &model.RoutingResponse{Algorithm: req.Algorithm}, nil
	})
	if len(results) != 20 {
		t.Fatalf("results: got %d, want 20", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
		if r.Err != nil {
			t.Fatalf("result %d: %v", i, r.Err)
		}
		if want := fmt.Sprintf("p%d", i); r.Value.Algorithm != want {
			t.Fatalf("result %d: got %s, want %s", i, r.Value.Algorithm, want)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	d := NewDispatcher(WithWorkers(2))
	boom := errors.New("bad problem")
	results := d.Run(context.Background(), problems(5), func(_ context.Context, req model.RoutingRequest) (*model.RoutingResponse, error) {
		if req.Algorithm == "p2" {
			return nil, boom
		}
		return &model.RoutingResponse{}, nil
	})
	for i, r := range results {
		if i == 2 {
			if !errors.Is(r.Err, boom) {
				t.Fatalf("result 2: got %v, want %v", r.Err, boom)
			}
			continue
		}
		if r.Err != nil || r.Value == nil {
			t.Fatalf("result %d should have succeeded: %+v", i, r)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	d := NewDispatcher(WithWorkers(3))
	var active, peak int64
	d.Run(context.Background(), problems(12), func(_ context.Context, _ model.RoutingRequest) (*model.RoutingResponse, error) {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return &model.RoutingResponse{}, nil
	})
	if got := atomic.LoadInt64(&peak); got > 3 {
		t.Fatalf("peak concurrency %d exceeds 3 workers", got)
	}
}

func TestRunReportsProgress(t *testing.T) {
	var calls int
	var last int
	d := NewDispatcher(WithWorkers(2), WithProgress(func(done, total int) {
		calls++
		last = done
		if total != 6 {
			t.Fatalf("total: got %d, want 6", total)
		}
	}))
	d.Run(context.Background(), problems(6), func(_ context.Context, _ model.RoutingRequest) (*model.RoutingResponse, error) {
		return &model.RoutingResponse{}, nil
	})
	if calls != 6 {
		t.Fatalf("progress calls: got %d, want 6", calls)
	}
	if last != 6 {
		t.Fatalf("final done count: got %d, want 6", last)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewDispatcher(WithWorkers(2))
	results := d.Run(ctx, problems(4), func(_ context.Context, _ model.RoutingRequest) (*model.RoutingResponse, error) {
		return &model.RoutingResponse{}, nil
	})
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("result %d: got %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestRunEmptyBatch(t *testing.T) {
	d := NewDispatcher()
	results := d.Run(context.Background(), nil, func(_ context.Context, _ model.RoutingRequest) (*model.RoutingResponse, error) {
		t.Fatal("solve should not be called")
		return nil, nil
	})
	if len(results) != 0 {
		t.Fatalf("results: got %d, want 0", len(results))
	}
}

func TestDefaultWorkers(t *testing.T) {
	if NewDispatcher().Workers() < 1 {
		t.Fatal("default worker count must be at least 1")
	}
	if NewDispatcher(WithWorkers(0)).Workers() < 1 {
		t.Fatal("non-positive override must keep the default")
	}
}
