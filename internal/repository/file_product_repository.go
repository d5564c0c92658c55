package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/samber/lo"
)

type fileProductRepository struct {
	mu   sync.Mutex
	file jsonArrayFile[domain.Product]
}

func NewFileProductRepository(dir string) ProductRepository {
	return &fileProductRepository{
		file: jsonArrayFile[domain.Product]{path: filepath.Join(dir, "products.json")},
	}
}

func (r *fileProductRepository) load() ([]domain.Product, error) {
	products, err := r.file.read()
	if err != nil {
		return nil, domain.NewPersistenceError("read products file", err)
	}
	return products, nil
}

func (r *fileProductRepository) save(products []domain.Product) error {
	if err := r.file.write(products); err != nil {
		return domain.NewPersistenceError("write products file", err)
	}
	return nil
}

// Create rejects a product whose code and title are both already in use, then one whose code alone is taken.
func (r *fileProductRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return nil, err
	}

	if err := duplicateOf(products, product.Code, product.Title); err != nil {
		return nil, err
	}

	lastID := ""
	if len(products) > 0 {
		lastID = products[len(products)-1].ID
	}
	product.ID = nextID(lastID, len(products))

	if err := r.save(append(products, *product)); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *fileProductRepository) CheckDuplicate(_ context.Context, code, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return err
	}
	return duplicateOf(products, code, title)
}

func duplicateOf(products []domain.Product, code, title string) error {
	codeTaken := lo.ContainsBy(products, func(p domain.Product) bool { return p.Code == code })
	if !codeTaken {
		return nil
	}
	if lo.ContainsBy(products, func(p domain.Product) bool { return p.Title == title }) {
		return domain.ErrProductExists
	}
	return fmt.Errorf("%w: %q", domain.ErrDuplicateCode, code)
}

func (r *fileProductRepository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return nil, err
	}
	return lo.ToSlicePtr(products), nil
}

func (r *fileProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	return r.find(func(p domain.Product) bool { return p.ID == id })
}

func (r *fileProductRepository) GetByCode(_ context.Context, code string) (*domain.Product, error) {
	return r.find(func(p domain.Product) bool { return p.Code == code })
}

func (r *fileProductRepository) find(predicate func(domain.Product) bool) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return nil, err
	}
	product, ok := lo.Find(products, predicate)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (r *fileProductRepository) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return nil, err
	}

	before, idx, ok := lo.FindIndexOf(products, func(p domain.Product) bool { return p.ID == id })
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	if patch.Code != nil && *patch.Code != before.Code {
		if lo.ContainsBy(products, func(p domain.Product) bool { return p.Code == *patch.Code }) {
			return nil, domain.ErrDuplicateCode
		}
	}

	updated := patch.Apply(before)
	products[idx] = updated
	if err := r.save(products); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *fileProductRepository) Delete(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return nil, err
	}

	deleted, idx, ok := lo.FindIndexOf(products, func(p domain.Product) bool { return p.ID == id })
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	if err := r.save(slices.Delete(products, idx, idx+1)); err != nil {
		return nil, err
	}
	return &deleted, nil
}
