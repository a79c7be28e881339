package service

import (
	"context"

	"github.com/sumire/market/internal/domain"
)

// CategoryLister lists the product categories.
type CategoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// CategoryService serves the static category list.
type CategoryService struct {
	categories CategoryLister
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories CategoryLister) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
