package postgres

import (
	"context"
	"errors"
	"fmt"

	"ecomStore/domain"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		DB: db,
	}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem

	err := conn(ctx, r.DB).Where("user_id = ?", userID).Order("created_at").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cart items: %w", err)
	}

	return items, nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (domain.CartItem, error) {
	var item domain.CartItem

	err := conn(ctx, r.DB).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, domain.ErrCartItemNotFound
		}
		return domain.CartItem{}, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

func (r *CartRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (domain.CartItem, error) {
	var item domain.CartItem

	err := conn(ctx, r.DB).Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, domain.ErrCartItemNotFound
		}
		return domain.CartItem{}, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if err := conn(ctx, r.DB).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}

	return nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (domain.CartItem, error) {
	result := conn(ctx, r.DB).Model(&domain.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		return domain.CartItem{}, fmt.Errorf("failed to update cart item: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.DB).Where("id = ?", id).Delete(&domain.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := conn(ctx, r.DB).Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
