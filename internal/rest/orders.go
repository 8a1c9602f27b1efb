package rest

import (
	"context"
	"net/http"
	"time"

	orderssvc "ecomStore/business/orders"
	"ecomStore/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		PlaceOrder(ctx context.Context, userID string, in orderssvc.PlaceOrderInput) (domain.Orders, error)
		GetAllOrders(ctx context.Context, userID string) ([]domain.Orders, error)
		GetOrder(ctx context.Context, caller domain.Identity, id string) (domain.Orders, error)
		GetSellerOrders(ctx context.Context, seller domain.Identity) ([]domain.Orders, error)
		UpdateStatus(ctx context.Context, seller domain.Identity, id, status string) (domain.Orders, error)
	}

	PlaceOrderRequest struct {
		ShippingAddress *domain.Address `json:"shippingAddress"`
		PaymentMethod   string          `json:"paymentMethod"`
	}

	UpdateStatusRequest struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       10 * time.Second,
	}
}

func (h *OrdersHandler) PlaceOrder(c echo.Context) error {
	var request PlaceOrderRequest
	if err := c.Bind(&request); err != nil {
		return invalidBody(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.PlaceOrder(ctx, identity(c).UserID, orderssvc.PlaceOrderInput{
		ShippingAddress: request.ShippingAddress,
		PaymentMethod:   request.PaymentMethod,
	})
	if err != nil {
		return writeError(c, "Failed to place order", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetAllOrders(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, "Failed to get all orders", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

func (h *OrdersHandler) GetSellerOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetSellerOrders(ctx, identity(c))
	if err != nil {
		return writeError(c, "Failed to get seller orders", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

func (h *OrdersHandler) GetOrderByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, identity(c), c.Param("id"))
	if err != nil {
		return writeError(c, "Failed to get order by id", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order": order,
	})
}

func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	var request UpdateStatusRequest
	if err := c.Bind(&request); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validate.Struct(&request); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateStatus(ctx, identity(c), c.Param("id"), request.Status)
	if err != nil {
		return writeError(c, "Failed to update order status", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Order status updated",
		"order":   order,
	})
}
