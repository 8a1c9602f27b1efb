package product

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
	"ecomStore/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

const searchLimit = 20

var nowUTC = func() time.Time { return time.Now().UTC() }

type productService struct {
	productRepo ProductRepository
	tx          Transactor
	validate    *validator.Validate
}

func NewProductService(productRepo ProductRepository, tx Transactor, validate *validator.Validate) *productService {
	return &productService{
		productRepo: productRepo,
		tx:          tx,
		validate:    validate,
	}
}

type CreateProductInput struct {
	Name        string          `validate:"required"`
	Description string          `validate:"required"`
	Price       decimal.Decimal `validate:"-"`
	Category    string          `validate:"required"`
	Image       string
	Stock       int `validate:"gte=0"`
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return domain.ErrValidation.WithMessage("price must be positive")
	}
	return nil
}

func validateCategory(category string) error {
	if !domain.ValidCategories[category] {
		return domain.ErrValidation.WithMessage("invalid category")
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, seller domain.Identity, in CreateProductInput) (domain.Product, error) {
	if !seller.IsSeller() {
		return domain.Product{}, domain.ErrSellerAccessRequired
	}

	if err := s.validate.Struct(in); err != nil {
		logger.Error("Invalid product input", err)
		return domain.Product{}, domain.ErrValidation.WithMessage("name, description, category are required and stock cannot be negative")
	}

	if err := validatePrice(in.Price); err != nil {
		return domain.Product{}, err
	}

	if err := validateCategory(in.Category); err != nil {
		return domain.Product{}, err
	}

	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = domain.DefaultProductImage
	}

	now := nowUTC()
	product := domain.Product{
		ID:          utils.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		Image:       image,
		Stock:       in.Stock,
		SellerID:    seller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		logger.Error("Failed to create product", err)
		return domain.Product{}, err
	}

	return product, nil
}

// UpdateProduct applies the non-nil fields of upd. Only the owning seller
// may update a product.
func (s *productService) UpdateProduct(ctx context.Context, seller domain.Identity, id string, upd domain.ProductUpdate) (domain.Product, error) {
	if !seller.IsSeller() {
		return domain.Product{}, domain.ErrSellerAccessRequired
	}

	if upd.Price != nil {
		if err := validatePrice(*upd.Price); err != nil {
			return domain.Product{}, err
		}
	}
	if upd.Category != nil {
		if err := validateCategory(*upd.Category); err != nil {
			return domain.Product{}, err
		}
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return domain.Product{}, domain.ErrValidation.WithMessage("stock cannot be negative")
	}

	var product domain.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if product.SellerID != seller.UserID {
			return domain.ErrAuthorizationDenied.WithMessage("you can only update your own products")
		}

		if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
			product.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Description != nil && strings.TrimSpace(*upd.Description) != "" {
			product.Description = strings.TrimSpace(*upd.Description)
		}
		if upd.Price != nil {
			product.Price = *upd.Price
		}
		if upd.Category != nil {
			product.Category = *upd.Category
		}
		if upd.Image != nil && strings.TrimSpace(*upd.Image) != "" {
			product.Image = strings.TrimSpace(*upd.Image)
		}
		if upd.Stock != nil {
			product.Stock = *upd.Stock
		}
		product.UpdatedAt = nowUTC()

		return s.productRepo.Update(ctx, &product)
	})
	if err != nil {
		logger.Error("Failed to update product", "product_id", id, err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, seller domain.Identity, id string) error {
	if !seller.IsSeller() {
		return domain.ErrSellerAccessRequired
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if product.SellerID != seller.UserID {
			return domain.ErrAuthorizationDenied.WithMessage("you can only delete your own products")
		}

		return s.productRepo.Delete(ctx, id)
	})
	if err != nil {
		logger.Error("Failed to delete product", "product_id", id, err)
		return err
	}

	return nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, domain.ErrValidation.WithMessage("invalid product id")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return domain.Product{}, err
	}

	return product, nil
}

// ListProducts filters by category ("all" or empty means any), seller and a
// case-insensitive substring over name and description, newest first.
func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all product", err)
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// SearchProducts matches name, description or category. Name matches rank
// first; the result is capped at 20.
func (s *productService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.Product{}, nil
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to search products", err)
		return nil, err
	}

	var byName, byOther []domain.Product
	for _, p := range products {
		switch {
		case strings.Contains(strings.ToLower(p.Name), q):
			byName = append(byName, p)
		case strings.Contains(strings.ToLower(p.Description), q),
			strings.Contains(strings.ToLower(p.Category), q):
			byOther = append(byOther, p)
		}
	}

	out := append(byName, byOther...)
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	if out == nil {
		out = []domain.Product{}
	}

	return out, nil
}
