package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
	"ecomStore/pkg/metrics"
	"ecomStore/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type OrdersRepository interface {
	CreateOrder(ctx context.Context, order *domain.Orders) error
	FindByID(ctx context.Context, id string) (domain.Orders, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Orders, error)
	FindAll(ctx context.Context) ([]domain.Orders, error)
	UpdateStatus(ctx context.Context, id, status string) (domain.Orders, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) error
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrdersService struct {
	orderRepo    OrdersRepository
	productsRepo ProductRepository
	cartRepo     CartRepository
	tx           Transactor
	validate     *validator.Validate
}

func NewOrdersService(
	orderRepo OrdersRepository,
	productsRepo ProductRepository,
	cartRepo CartRepository,
	tx Transactor,
	validate *validator.Validate,
) *OrdersService {
	return &OrdersService{
		orderRepo:    orderRepo,
		productsRepo: productsRepo,
		cartRepo:     cartRepo,
		tx:           tx,
		validate:     validate,
	}
}

type PlaceOrderInput struct {
	ShippingAddress *domain.Address
	PaymentMethod   string
}

func checkoutFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}

// PlaceOrder turns the user's cart into a pending order. The cart read, stock
// checks, order insert, stock decrements and cart clear run in one
// transaction, so a failure at any step leaves no trace.
func (s *OrdersService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (order domain.Orders, err error) {
	defer func() {
		if err != nil {
			metrics.CheckoutFailures.WithLabelValues(checkoutFailureReason(err)).Inc()
		}
	}()

	if in.ShippingAddress == nil || strings.TrimSpace(in.PaymentMethod) == "" {
		return domain.Orders{}, domain.ErrValidation.WithMessage("shipping address and payment method are required")
	}

	if err := s.validate.Struct(in.ShippingAddress); err != nil {
		logger.Error("Invalid shipping address", err)
		return domain.Orders{}, domain.ErrValidation.WithMessage("shipping address is incomplete")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cartItems, err := s.cartRepo.FindByUser(ctx, userID)
		if err != nil {
			return err
		}

		if len(cartItems) == 0 {
			return domain.ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]domain.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			product, err := s.productsRepo.FindByID(ctx, ci.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return domain.ErrProductNotFound.WithMessage(fmt.Sprintf("product %s not found", ci.ProductID))
				}
				return err
			}

			if product.Stock < ci.Quantity {
				return domain.ErrInsufficientStock.WithMessage(fmt.Sprintf(
					"insufficient stock for %s. Available: %d, Requested: %d",
					product.Name, product.Stock, ci.Quantity,
				))
			}

			item := domain.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				Quantity:     ci.Quantity,
				Price:        product.Price,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}

		now := time.Now().UTC()
		order = domain.Orders{
			ID:              utils.NewID(),
			UserID:          userID,
			Items:           items,
			Total:           total,
			Status:          domain.OrderStatusPending,
			ShippingAddress: *in.ShippingAddress,
			PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
			return err
		}

		for _, item := range items {
			if err := s.productsRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return s.cartRepo.DeleteByUser(ctx, userID)
	})
	if err != nil {
		logger.Error("Failed to place order", "user_id", userID, err)
		return domain.Orders{}, err
	}

	metrics.OrdersPlaced.Inc()
	logger.Info("Order placed", "order_id", order.ID, "user_id", userID, "total", order.Total.StringFixed(2))

	return order, nil
}

func newestFirst(orders []domain.Orders) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func (s *OrdersService) GetAllOrders(ctx context.Context, userID string) ([]domain.Orders, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get orders", err)
		return nil, err
	}

	newestFirst(orders)
	return orders, nil
}

func (s *OrdersService) sellerProductIDs(ctx context.Context, sellerID string) (map[string]bool, error) {
	products, err := s.productsRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(products))
	for _, p := range products {
		ids[p.ID] = true
	}

	return ids, nil
}

// GetOrder returns an order to its owner, or to a seller with at least one
// line in it.
func (s *OrdersService) GetOrder(ctx context.Context, caller domain.Identity, id string) (domain.Orders, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get order", "order_id", id, err)
		return domain.Orders{}, err
	}

	if order.UserID == caller.UserID {
		return order, nil
	}

	if caller.IsSeller() {
		ids, err := s.sellerProductIDs(ctx, caller.UserID)
		if err != nil {
			return domain.Orders{}, err
		}
		if order.HasProductFrom(ids) {
			return order, nil
		}
	}

	return domain.Orders{}, domain.ErrAuthorizationDenied
}

// GetSellerOrders lists orders containing the seller's products, with each
// order's items narrowed to the seller's own lines.
func (s *OrdersService) GetSellerOrders(ctx context.Context, seller domain.Identity) ([]domain.Orders, error) {
	if !seller.IsSeller() {
		return nil, domain.ErrSellerAccessRequired
	}

	ids, err := s.sellerProductIDs(ctx, seller.UserID)
	if err != nil {
		logger.Error("Failed to get seller products", err)
		return nil, err
	}

	all, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get orders", err)
		return nil, err
	}

	out := make([]domain.Orders, 0)
	for _, o := range all {
		if !o.HasProductFrom(ids) {
			continue
		}

		lines := make([]domain.OrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			if ids[item.ProductID] {
				lines = append(lines, item)
			}
		}
		o.Items = lines
		out = append(out, o)
	}

	newestFirst(out)
	return out, nil
}

// UpdateStatus moves an order along its lifecycle. The seller must own a
// line in the order and the move must be a legal transition.
func (s *OrdersService) UpdateStatus(ctx context.Context, seller domain.Identity, id, status string) (domain.Orders, error) {
	if !seller.IsSeller() {
		return domain.Orders{}, domain.ErrSellerAccessRequired
	}

	if !IsValidStatus(status) {
		return domain.Orders{}, domain.ErrValidation.WithMessage("invalid status")
	}

	var updated domain.Orders
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		ids, err := s.sellerProductIDs(ctx, seller.UserID)
		if err != nil {
			return err
		}

		if !order.HasProductFrom(ids) {
			return domain.ErrAuthorizationDenied.WithMessage("you can only update orders containing your products")
		}

		if !CanTransition(order.Status, status) {
			return domain.ErrInvalidTransition.WithMessage(fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
		}

		updated, err = s.orderRepo.UpdateStatus(ctx, id, status)
		return err
	})
	if err != nil {
		logger.Error("Failed to update order status", "order_id", id, err)
		return domain.Orders{}, err
	}

	return updated, nil
}
