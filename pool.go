package cmsblocks

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("renderer pool is closed")

// RendererPool manages Renderer instances for parallel rendering.
// Each renderer has its own browser instance, so previews run in parallel.
// Renderers are created lazily on first acquire to avoid startup delay.
type RendererPool struct {
	size      int
	opts      []Option
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
	closing   chan struct{}
	freed     chan struct{} // Closed and replaced when a failed creation frees a slot
	newFunc   func(...Option) (*Renderer, error)
}

// NewRendererPool creates a pool with capacity for n renderers, each built
// with opts. Renderers are created when acquired, not at pool creation.
func NewRendererPool(n int, opts ...Option) *RendererPool {
	if n < 1 {
		n = 1
	}

	return &RendererPool{
		size:      n,
		opts:      opts,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
		closing:   make(chan struct{}),
		freed:     make(chan struct{}),
		newFunc:   NewRenderer,
	}
}

// Acquire gets a renderer from the pool, creating one if needed.
// Blocks until one is released, ctx is done or the pool is closed.
func (p *RendererPool) Acquire(ctx context.Context) (*Renderer, error) {
	for {
		select {
		case r := <-p.sem:
			return r, nil
		default:
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		if p.created < p.size {
			p.created++
			p.mu.Unlock()
			return p.create()
		}
		freed := p.freed
		p.mu.Unlock()

		select {
		case r := <-p.sem:
			return r, nil
		case <-freed:
			// A creation failed; retry it ourselves.
		case <-p.closing:
			return nil, ErrPoolClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// create builds a renderer for a slot already counted in created. On failure
// the slot is given back and waiters are woken to retry.
func (p *RendererPool) create() (*Renderer, error) {
	// Created outside the lock: building a renderer parses templates.
	r, err := p.newFunc(p.opts...)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.created--
		close(p.freed)
		p.freed = make(chan struct{})
		return nil, err
	}
	p.renderers = append(p.renderers, r)
	return r, nil
}

// Release returns a renderer to the pool.
func (p *RendererPool) Release(r *Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || r == nil {
		return
	}
	// Never blocks: at most size renderers exist.
	p.sem <- r
}

// Close releases all browser resources.
// Returns an aggregated error if several renderers fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.closing)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted to the container CPU quota by automaxprocs.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
