package rest

import (
	"context"
	"net/http"
	"time"

	"ecomStore/domain"
	jsonres "ecomStore/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CartHandler struct {
		cartService CartService
		validate    *validator.Validate
		timeout     time.Duration
	}

	CartService interface {
		GetCart(ctx context.Context, userID string) ([]domain.CartLine, error)
		AddItem(ctx context.Context, userID, productID string, qty int) (domain.CartItem, bool, error)
		UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (domain.CartItem, error)
		RemoveItem(ctx context.Context, userID, itemID string) error
		ClearCart(ctx context.Context, userID string) error
	}

	// AddCartItemRequest defaults Quantity to 1 when it is omitted.
	AddCartItemRequest struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  *int   `json:"quantity"`
	}

	UpdateCartItemRequest struct {
		Quantity int `json:"quantity"`
	}
)

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
		timeout:     10 * time.Second,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	lines, err := h.cartService.GetCart(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, "Failed to get cart", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cartItems": lines,
	})
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validate.Struct(&req); err != nil {
		return invalidInput(c, err)
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, created, err := h.cartService.AddItem(ctx, identity(c).UserID, req.ProductID, qty)
	if err != nil {
		return writeError(c, "Failed to add cart item", err)
	}

	if created {
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message":  "Item added to cart",
			"cartItem": item,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Cart updated",
		"cartItem": item,
	})
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.cartService.UpdateQuantity(ctx, identity(c).UserID, c.Param("id"), req.Quantity)
	if err != nil {
		return writeError(c, "Failed to update cart item", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Cart item updated",
		"cartItem": item,
	})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.RemoveItem(ctx, identity(c).UserID, c.Param("id")); err != nil {
		return writeError(c, "Failed to remove cart item", err)
	}

	return c.JSON(http.StatusOK, jsonres.Message("Item removed from cart"))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.ClearCart(ctx, identity(c).UserID); err != nil {
		return writeError(c, "Failed to clear cart", err)
	}

	return c.JSON(http.StatusOK, jsonres.Message("Cart cleared"))
}
