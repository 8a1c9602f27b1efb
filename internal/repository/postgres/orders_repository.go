package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomStore/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Orders) error {
	if err := conn(ctx, r.DB).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrdersRepository) FindByID(ctx context.Context, id string) (domain.Orders, error) {
	var order domain.Orders

	err := conn(ctx, r.DB).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Orders{}, domain.ErrOrderNotFound
		}
		return domain.Orders{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

func (r *OrdersRepository) FindByUser(ctx context.Context, userID string) ([]domain.Orders, error) {
	var orders []domain.Orders

	if err := conn(ctx, r.DB).Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepository) FindAll(ctx context.Context) ([]domain.Orders, error) {
	var orders []domain.Orders

	if err := conn(ctx, r.DB).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id, status string) (domain.Orders, error) {
	result := conn(ctx, r.DB).Model(&domain.Orders{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return domain.Orders{}, fmt.Errorf("failed to update order status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.Orders{}, domain.ErrOrderNotFound
	}

	return r.FindByID(ctx, id)
}
