package repository

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// ProductRepository is implemented by the Mongo and the flat-file backends.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	// CheckDuplicate reports whether a product with this code (and, for the file store, title) would clash.
	CheckDuplicate(ctx context.Context, code, title string) error
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

type CartRepository interface {
	Create(ctx context.Context) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	AddProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error)
}

// MessageRepository is an append-only chat log.
type MessageRepository interface {
	Append(ctx context.Context, message *domain.Message) (*domain.Message, error)
	ListAll(ctx context.Context) ([]*domain.Message, error)
}
