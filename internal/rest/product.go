package rest

import (
	"context"
	"net/http"
	"time"

	productsvc "ecomStore/business/product"
	"ecomStore/domain"
	jsonres "ecomStore/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	CreateProduct(ctx context.Context, seller domain.Identity, in productsvc.CreateProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, seller domain.Identity, id string, upd domain.ProductUpdate) (domain.Product, error)
	DeleteProduct(ctx context.Context, seller domain.Identity, id string) error
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest leaves a field untouched when it is absent.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image"`
	Stock       *int             `json:"stock"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListProducts(ctx, domain.ProductFilter{
		Category: c.QueryParam("category"),
		SellerID: c.QueryParam("sellerId"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return writeError(c, "Failed to find all products", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.SearchProducts(ctx, c.QueryParam("q"))
	if err != nil {
		return writeError(c, "Failed to search products", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, "Failed to find product", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"product": product,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.CreateProduct(ctx, identity(c), productsvc.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
	})
	if err != nil {
		return writeError(c, "Failed to create product", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.UpdateProduct(ctx, identity(c), c.Param("id"), domain.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
	})
	if err != nil {
		return writeError(c, "Failed to update product", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, identity(c), c.Param("id")); err != nil {
		return writeError(c, "Failed to delete product", err)
	}

	return c.JSON(http.StatusOK, jsonres.Message("Product deleted successfully"))
}
