package jsonstore

import (
	"context"
	"time"

	"ecomStore/domain"
)

type OrdersRepository struct {
	orders *Collection[domain.Orders]
}

func NewOrdersRepository(store *Store) *OrdersRepository {
	return &OrdersRepository{
		orders: NewCollection[domain.Orders](store, "orders"),
	}
}

func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Orders) error {
	return r.orders.Create(ctx, *order)
}

func (r *OrdersRepository) FindByID(ctx context.Context, id string) (domain.Orders, error) {
	order, ok, err := r.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Orders{}, err
	}
	if !ok {
		return domain.Orders{}, domain.ErrOrderNotFound
	}

	return order, nil
}

func (r *OrdersRepository) FindByUser(ctx context.Context, userID string) ([]domain.Orders, error) {
	return r.orders.FindBy(ctx, func(o domain.Orders) bool {
		return o.UserID == userID
	})
}

func (r *OrdersRepository) FindAll(ctx context.Context) ([]domain.Orders, error) {
	return r.orders.FindAll(ctx)
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id, status string) (domain.Orders, error) {
	order, ok, err := r.orders.Update(ctx, id, func(o *domain.Orders) error {
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return domain.Orders{}, err
	}
	if !ok {
		return domain.Orders{}, domain.ErrOrderNotFound
	}

	return order, nil
}
