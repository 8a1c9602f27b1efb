package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomStore/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := conn(ctx, r.DB).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product

	err := conn(ctx, r.DB).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product

	if err := conn(ctx, r.DB).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	var products []domain.Product

	if err := conn(ctx, r.DB).Where("seller_id = ?", sellerID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find seller products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
			"image":       product.Image,
			"stock":       product.Stock,
			"updated_at":  product.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.DB).Where("id = ?", id).Delete(&domain.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// DecrementStock lowers stock by qty with a guarded update so stock never
// goes below zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	db := conn(ctx, r.DB)

	result := db.Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}

	return nil
}
