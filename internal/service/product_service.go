package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

type ProductService struct {
	repo   repository.ProductRepository
	events *eventQueue
	log    *slog.Logger
}

func NewProductService(repo repository.ProductRepository, pub publisher.Publisher, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: newEventQueue(pub, log),
		log:    log,
	}
}

// Create checks the code before anything else, so a taken code is reported as ErrDuplicateCode
// even when other fields are missing. The store decides what counts as a clash.
func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if in.Code != "" {
		if err := s.repo.CheckDuplicate(ctx, in.Code, in.Title); err != nil {
			if errors.Is(err, domain.ErrDuplicateCode) {
				s.log.Info("product code already exists", "code", in.Code, "error", err)
			}
			return nil, err
		}
	}

	if err := validateStruct(in); err != nil {
		s.log.Info("product rejected", "code", in.Code, "error", err)
		return nil, err
	}

	product := in.ToProduct()
	created, err := s.repo.Create(ctx, &product)
	if err != nil {
		s.log.Error("repo create product error", "code", in.Code, "error", err)
		return nil, err
	}

	s.events.publishAsync(publisher.NewEvent(publisher.EventProductCreated, created.ID, created))
	return created, nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("repo list products error", "error", err)
		return nil, err
	}
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("repo update product error", "id", id, "error", err)
		}
		return nil, err
	}

	s.events.publishAsync(publisher.NewEvent(publisher.EventProductUpdated, updated.ID, updated))
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("repo delete product error", "id", id, "error", err)
		}
		return nil, err
	}

	s.events.publishAsync(publisher.NewEvent(publisher.EventProductDeleted, deleted.ID, deleted))
	return deleted, nil
}

// WaitForEvents blocks until in-flight event publishes have finished. Call it before closing the publisher.
func (s *ProductService) WaitForEvents() {
	s.events.wait()
}
