package jsonstore

import (
	"context"

	"ecomStore/domain"
)

type CartRepository struct {
	items *Collection[domain.CartItem]
}

func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{
		items: NewCollection[domain.CartItem](store, "cart"),
	}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return r.items.FindBy(ctx, func(i domain.CartItem) bool {
		return i.UserID == userID
	})
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (domain.CartItem, error) {
	item, ok, err := r.items.FindByID(ctx, id)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !ok {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}

	return item, nil
}

func (r *CartRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (domain.CartItem, error) {
	item, ok, err := r.items.FindOne(ctx, func(i domain.CartItem) bool {
		return i.UserID == userID && i.ProductID == productID
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	if !ok {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}

	return item, nil
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	return r.items.Create(ctx, *item)
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (domain.CartItem, error) {
	item, ok, err := r.items.Update(ctx, id, func(i *domain.CartItem) error {
		i.Quantity = quantity
		return nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	if !ok {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}

	return item, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	ok, err := r.items.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCartItemNotFound
	}

	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.items.DeleteBy(ctx, func(i domain.CartItem) bool {
		return i.UserID == userID
	})

	return err
}
