package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
	"ecomStore/pkg/utils"
)

// CartRepository contract interface
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	FindByID(ctx context.Context, id string) (domain.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) (domain.CartItem, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type cartService struct {
	cartRepo    CartRepository
	productRepo ProductFinder
	tx          Transactor
}

func NewCartService(cartRepo CartRepository, productRepo ProductFinder, tx Transactor) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		tx:          tx,
	}
}

// GetCart returns the user's lines joined with live product data. Lines whose
// product no longer exists are left out.
func (s *cartService) GetCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get cart items", err)
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				logger.Debug("Dropping cart line for missing product", "cart_item_id", item.ID, "product_id", item.ProductID)
				continue
			}
			logger.Error("Failed to load cart product", err)
			return nil, err
		}
		lines = append(lines, domain.CartLine{CartItem: item, Product: product})
	}

	return lines, nil
}

// AddItem adds qty of a product, merging into an existing line for the same
// product. created reports whether a new line was made.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, qty int) (item domain.CartItem, created bool, err error) {
	if productID == "" {
		return domain.CartItem{}, false, domain.ErrValidation.WithMessage("product id is required")
	}
	if qty < 1 {
		return domain.CartItem{}, false, domain.ErrValidation.WithMessage("quantity must be at least 1")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return err
		}

		if product.Stock < qty {
			return domain.ErrInsufficientStock
		}

		existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
		switch {
		case err == nil:
			newQty := existing.Quantity + qty
			if product.Stock < newQty {
				return domain.ErrInsufficientStock
			}
			item, err = s.cartRepo.UpdateQuantity(ctx, existing.ID, newQty)
			return err
		case errors.Is(err, domain.ErrCartItemNotFound):
			item = domain.CartItem{
				ID:        utils.NewID(),
				UserID:    userID,
				ProductID: productID,
				Quantity:  qty,
				CreatedAt: time.Now().UTC(),
			}
			created = true
			return s.cartRepo.Create(ctx, &item)
		default:
			return err
		}
	})
	if err != nil {
		logger.Error("Failed to add cart item", "product_id", productID, err)
		return domain.CartItem{}, false, err
	}

	return item, created, nil
}

// ownedItem loads a cart line and checks it belongs to userID.
func (s *cartService) ownedItem(ctx context.Context, userID, itemID string) (domain.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return domain.CartItem{}, err
	}

	if item.UserID != userID {
		return domain.CartItem{}, domain.ErrAuthorizationDenied
	}

	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (domain.CartItem, error) {
	if qty < 1 {
		return domain.CartItem{}, domain.ErrValidation.WithMessage("quantity must be at least 1")
	}

	var updated domain.CartItem
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.ownedItem(ctx, userID, itemID)
		if err != nil {
			return err
		}

		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		if product.Stock < qty {
			return domain.ErrInsufficientStock
		}

		updated, err = s.cartRepo.UpdateQuantity(ctx, item.ID, qty)
		return err
	})
	if err != nil {
		logger.Error("Failed to update cart item", "cart_item_id", itemID, err)
		return domain.CartItem{}, err
	}

	return updated, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.ownedItem(ctx, userID, itemID)
		if err != nil {
			return err
		}
		return s.cartRepo.Delete(ctx, item.ID)
	})
	if err != nil {
		logger.Error("Failed to remove cart item", "cart_item_id", itemID, err)
		return err
	}

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.DeleteByUser(ctx, userID); err != nil {
		logger.Error("Failed to clear cart", err)
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
