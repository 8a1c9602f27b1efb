package category

import (
	"context"
	"fmt"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
)

// ProductLister is the slice of the product repository categories need.
type ProductLister interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

var catalog = []domain.Category{
	{ID: "all", Name: "All Products"},
	{ID: domain.CategoryShoes, Name: "Shoes"},
	{ID: domain.CategoryClothes, Name: "Clothes"},
	{ID: domain.CategoryElectronics, Name: "Electronics"},
}

type categoryService struct {
	products ProductLister
}

func NewCategoryService(products ProductLister) *categoryService {
	return &categoryService{
		products: products,
	}
}

// GetAllCategories returns the fixed category list with live product counts.
func (s *categoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to count products per category", err)
		return nil, err
	}

	counts := make(map[string]int, len(catalog))
	for _, p := range products {
		counts[p.Category]++
	}

	out := make([]domain.Category, len(catalog))
	for i, c := range catalog {
		c.Count = counts[c.ID]
		if c.ID == "all" {
			c.Count = len(products)
		}
		out[i] = c
	}

	return out, nil
}
