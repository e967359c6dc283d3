package cmsblocks

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Renderer, error)
	Release(*Renderer)
	Size() int
	Close() error
} = (*RendererPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 16,
			want:    16,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestRendererPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(2)
	defer pool.Close()
	ctx := context.Background()

	r1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	r2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r1 == r2 {
		t.Error("expected different renderer instances")
	}

	pool.Release(r1)
	r3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r3 != r1 {
		t.Error("expected to get back the released renderer")
	}

	pool.Release(r2)
	pool.Release(r3)
}

func TestRendererPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewRendererPool(tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRendererPool_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pool.Acquire(context.Background())
			if err != nil {
				errs <- err
				return
			}
			time.Sleep(5 * time.Millisecond)
			pool.Release(r)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("concurrent access test timed out - possible deadlock")
	}
	close(errs)
	for err := range errs {
		t.Errorf("Acquire() error = %v", err)
	}
}

func TestRendererPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	defer pool.Close()

	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer pool.Release(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() on exhausted pool error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRendererPool_CloseUnblocksAcquire(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	result := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		result <- err
	}()

	time.Sleep(10 * time.Millisecond)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case err := <-result:
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire() still blocked after Close()")
	}
}

func TestRendererPool_AfterClose(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(2)
	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Release after close is a no-op.
	pool.Release(r)

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close() error = %v, want ErrPoolClosed", err)
	}
}

func TestRendererPool_CreationErrorFreesSlot(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	defer pool.Close()

	boom := errors.New("boom")
	calls := 0
	pool.newFunc = func(...Option) (*Renderer, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return NewRenderer()
	}

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Acquire() error = %v, want %v", err, boom)
	}
	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() after failed creation error = %v", err)
	}
	pool.Release(r)
}

func TestRendererPool_FailedCreationWakesWaiter(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	defer pool.Close()

	boom := errors.New("boom")
	creating := make(chan struct{})
	fail := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	pool.newFunc = func(...Option) (*Renderer, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(creating)
			<-fail
			return nil, boom
		}
		return NewRenderer()
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		firstErr <- err
	}()
	<-creating

	// The only slot is taken by the pending creation, so this caller waits.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	waiter := make(chan error, 1)
	go func() {
		r, err := pool.Acquire(ctx)
		if err == nil {
			pool.Release(r)
		}
		waiter <- err
	}()

	time.Sleep(50 * time.Millisecond)
	close(fail)

	if err := <-firstErr; !errors.Is(err, boom) {
		t.Fatalf("first Acquire() error = %v, want %v", err, boom)
	}
	if err := <-waiter; err != nil {
		t.Errorf("waiting Acquire() error = %v, want a renderer after the failed creation", err)
	}
}
