package usecase

import (
	"context"
	"sync"
)

// LazyProvider acquires the renderer on first use and keeps it. A failed
// load is not cached; the next export tries again.
type LazyProvider struct {
	next RendererProvider

	mu      sync.Mutex
	factory RendererFactory
}

func NewLazyProvider(next RendererProvider) *LazyProvider {
	return &LazyProvider{next: next}
}

func (p *LazyProvider) Load(ctx context.Context) (RendererFactory, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.factory != nil {
		return p.factory, nil
	}
	f, err := p.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.factory = f
	return f, nil
}

// Reset drops the cached renderer, e.g. after the browser was restarted.
func (p *LazyProvider) Reset() {
	p.mu.Lock()
	p.factory = nil
	p.mu.Unlock()
}
