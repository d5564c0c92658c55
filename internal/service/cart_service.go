package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	events   *eventQueue
	log      *slog.Logger
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	products repository.ProductRepository,
	cache cache.CartCache,
	pub publisher.Publisher,
	log *slog.Logger,
) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cache,
		events:   newEventQueue(pub, log),
		log:      log,
	}
}

func (s *CartService) Create(ctx context.Context) (*domain.Cart, error) {
	cart, err := s.repo.Create(ctx)
	if err != nil {
		s.log.Error("repo create cart error", "error", err)
		return nil, err
	}

	s.events.publishAsync(publisher.NewEvent(publisher.EventCartCreated, cart.ID, cart))
	return cart, nil
}

func (s *CartService) GetByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(cartID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, cartID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get error", "cart_id", cartID, "error", err) // log cache error but continue
		}

		gen := s.currentGeneration()
		cart, err = s.repo.GetByID(ctx, cartID)
		if err != nil {
			return nil, err
		}

		go s.fillCache(cartID, cart, gen)

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddProduct fails with ErrCartNotFound or ErrProductNotFound before touching the cart.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	if _, err := s.repo.GetByID(ctx, cartID); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.repo.AddProduct(ctx, cartID, productID)
	if err != nil {
		s.log.Error("repo add product error", "cart_id", cartID, "product_id", productID, "error", err)
		return nil, err
	}

	s.invalidateCache(cartID)
	s.events.publishAsync(publisher.NewEvent(publisher.EventCartProductAdded, cartID, domain.CartItem{
		ProductID: productID,
		Quantity:  quantityOf(cart, productID),
	}))
	return cart, nil
}

func (s *CartService) currentGeneration() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.generation
}

func (s *CartService) fillCache(cartID string, cart *domain.Cart, gen uint64) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.generation != gen {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, cartID, cart); err != nil {
		s.log.Warn("cache set error", "cart_id", cartID, "error", err)
	}
}

// invalidateCache runs after the store write. Later readers start a fresh lookup
// instead of joining a flight that may have read the old cart.
func (s *CartService) invalidateCache(cartID string) {
	s.sfg.Forget(cartID)

	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.generation++

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		s.log.Warn("cache invalidate error", "cart_id", cartID, "error", err)
	}
}

func quantityOf(cart *domain.Cart, productID string) int {
	for _, item := range cart.Products {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// WaitForEvents blocks until in-flight event publishes have finished. Call it before closing the publisher.
func (s *CartService) WaitForEvents() {
	s.events.wait()
}
