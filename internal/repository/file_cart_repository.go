package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/samber/lo"
)

type fileCartRepository struct {
	mu   sync.Mutex
	file jsonArrayFile[domain.Cart]
}

func NewFileCartRepository(dir string) CartRepository {
	return &fileCartRepository{
		file: jsonArrayFile[domain.Cart]{path: filepath.Join(dir, "carts.json")},
	}
}

func (r *fileCartRepository) load() ([]domain.Cart, error) {
	carts, err := r.file.read()
	if err != nil {
		return nil, domain.NewPersistenceError("read carts file", err)
	}
	return carts, nil
}

func (r *fileCartRepository) save(carts []domain.Cart) error {
	if err := r.file.write(carts); err != nil {
		return domain.NewPersistenceError("write carts file", err)
	}
	return nil
}

func (r *fileCartRepository) Create(_ context.Context) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	carts, err := r.load()
	if err != nil {
		return nil, err
	}

	lastID := ""
	if len(carts) > 0 {
		lastID = carts[len(carts)-1].ID
	}
	cart := domain.Cart{ID: nextID(lastID, len(carts)), Products: []domain.CartItem{}}

	if err := r.save(append(carts, cart)); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *fileCartRepository) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	carts, err := r.load()
	if err != nil {
		return nil, err
	}
	cart, ok := lo.Find(carts, func(c domain.Cart) bool { return c.ID == id })
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	if cart.Products == nil {
		cart.Products = []domain.CartItem{}
	}
	return &cart, nil
}

func (r *fileCartRepository) AddProduct(_ context.Context, cartID, productID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	carts, err := r.load()
	if err != nil {
		return nil, err
	}

	cart, idx, ok := lo.FindIndexOf(carts, func(c domain.Cart) bool { return c.ID == cartID })
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	cart.AddProduct(productID)
	carts[idx] = cart
	if err := r.save(carts); err != nil {
		return nil, err
	}
	return &cart, nil
}
