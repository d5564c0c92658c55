package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductService interface {
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

type ProductHandler struct {
	products ProductService
	timeout  time.Duration
}

func NewProductHandler(products ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		timeout:  timeout,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	respondPayload(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.products.GetByID(ctx, chi.URLParam(r, "pid"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	respondPayload(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var in domain.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}

	product, err := h.products.Create(ctx, in)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	respondPayload(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var patch domain.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	product, err := h.products.Update(ctx, chi.URLParam(r, "pid"), patch)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	respondPayload(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.products.Delete(ctx, chi.URLParam(r, "pid"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	respondPayload(w, http.StatusOK, product)
}
