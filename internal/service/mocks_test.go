package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/publisher"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockPublisher struct {
	m      sync.Mutex
	events []publisher.Event
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, event publisher.Event) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) types() []string {
	p.m.Lock()
	defer p.m.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type mockCache struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart
	deletes int
	err     error
}

func newMockCache() *mockCache {
	return &mockCache{carts: map[string]*domain.Cart{}}
}

func (m *mockCache) Get(_ context.Context, cartID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart, nil
}

func (m *mockCache) Set(_ context.Context, cartID string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[cartID] = cart
	return m.err
}

func (m *mockCache) Delete(_ context.Context, cartID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, cartID)
	m.deletes++
	return m.err
}

func (m *mockCache) has(cartID string) bool {
	m.m.RLock()
	defer m.m.RUnlock()
	_, ok := m.carts[cartID]
	return ok
}

// countingCartRepository counts GetByID calls reaching the store.
type countingCartRepository struct {
	m     sync.Mutex
	cart  *domain.Cart
	gets  int
	err   error
	block chan struct{}
}

func (r *countingCartRepository) Create(context.Context) (*domain.Cart, error) {
	return r.cart, r.err
}

func (r *countingCartRepository) GetByID(context.Context, string) (*domain.Cart, error) {
	if r.block != nil {
		<-r.block
	}
	r.m.Lock()
	defer r.m.Unlock()
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	return r.cart, nil
}

func (r *countingCartRepository) AddProduct(context.Context, string, string) (*domain.Cart, error) {
	return nil, r.err
}

func (r *countingCartRepository) calls() int {
	r.m.Lock()
	defer r.m.Unlock()
	return r.gets
}

type mockMessageRepository struct {
	m        sync.Mutex
	messages []*domain.Message
	err      error
}

func (r *mockMessageRepository) Append(_ context.Context, message *domain.Message) (*domain.Message, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	stored := *message
	stored.ID = "m1"
	r.messages = append(r.messages, &stored)
	return &stored, nil
}

func (r *mockMessageRepository) ListAll(context.Context) ([]*domain.Message, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.messages, nil
}

// sameEvents compares event types ignoring order, since events are published from goroutines.
func sameEvents(got, want []string) bool {
	got, want = slices.Clone(got), slices.Clone(want)
	slices.Sort(got)
	slices.Sort(want)
	return slices.Equal(got, want)
}

// blockingCache holds every Set until release is closed, signalling setStarted on the first one.
type blockingCache struct {
	*mockCache
	setStarted chan struct{}
	release    chan struct{}
}

func newBlockingCache() *blockingCache {
	return &blockingCache{
		mockCache:  newMockCache(),
		setStarted: make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
}

func (c *blockingCache) Set(ctx context.Context, cartID string, cart *domain.Cart) error {
	select {
	case c.setStarted <- struct{}{}:
	default:
	}
	<-c.release
	return c.mockCache.Set(ctx, cartID, cart)
}

// blockingPublisher holds every Publish until release is closed.
type blockingPublisher struct {
	mockPublisher
	release chan struct{}
}

func (p *blockingPublisher) Publish(ctx context.Context, event publisher.Event) error {
	<-p.release
	return p.mockPublisher.Publish(ctx, event)
}
