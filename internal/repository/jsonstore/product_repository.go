package jsonstore

import (
	"context"
	"fmt"
	"time"

	"ecomStore/domain"
)

type ProductRepository struct {
	products *Collection[domain.Product]
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{
		products: NewCollection[domain.Product](store, "products"),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.products.Create(ctx, *product)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	product, ok, err := r.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.products.FindAll(ctx)
}

func (r *ProductRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	return r.products.FindBy(ctx, func(p domain.Product) bool {
		return p.SellerID == sellerID
	})
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	_, ok, err := r.products.Update(ctx, product.ID, func(p *domain.Product) error {
		*p = *product
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ok, err := r.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}

	return nil
}

// DecrementStock lowers stock by qty and refuses to go below zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	_, ok, err := r.products.Update(ctx, id, func(p *domain.Product) error {
		if p.Stock < qty {
			return domain.ErrInsufficientStock.WithMessage(fmt.Sprintf("insufficient stock for %s", p.Name))
		}
		p.Stock -= qty
		p.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}

	return nil
}
