package product

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ecomStore/domain"
	"ecomStore/internal/repository/jsonstore"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.Identity{UserID: "seller-1", Email: "alice@x.com", Role: domain.RoleSeller}
	bob   = domain.Identity{UserID: "seller-2", Email: "bob@x.com", Role: domain.RoleSeller}
	carol = domain.Identity{UserID: "cust-1", Email: "carol@x.com", Role: domain.RoleCustomer}
)

func newTestService(t *testing.T) *productService {
	t.Helper()
	store, err := jsonstore.Open(t.TempDir())
	require.NoError(t, err)

	// deterministic, strictly increasing creation times
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	nowUTC = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	t.Cleanup(func() { nowUTC = func() time.Time { return time.Now().UTC() } })

	return NewProductService(jsonstore.NewProductRepository(store), store, validator.New())
}

func mustCreate(t *testing.T, s *productService, seller domain.Identity, name, desc, category string) domain.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), seller, CreateProductInput{
		Name:        name,
		Description: desc,
		Price:       decimal.RequireFromString("10.00"),
		Category:    category,
		Stock:       5,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	t.Run("defaults image", func(t *testing.T) {
		p := mustCreate(t, s, alice, "Runner", "light shoe", domain.CategoryShoes)
		assert.Equal(t, domain.DefaultProductImage, p.Image)
		assert.Equal(t, alice.UserID, p.SellerID)
		assert.NotEmpty(t, p.ID)
	})

	cases := []struct {
		name   string
		seller domain.Identity
		in     CreateProductInput
		want   error
	}{
		{"customer", carol, CreateProductInput{Name: "x", Description: "y", Price: decimal.NewFromInt(1), Category: "shoes"}, domain.ErrSellerAccessRequired},
		{"zero price", alice, CreateProductInput{Name: "x", Description: "y", Price: decimal.Zero, Category: "shoes"}, domain.ErrValidation},
		{"bad category", alice, CreateProductInput{Name: "x", Description: "y", Price: decimal.NewFromInt(1), Category: "food"}, domain.ErrValidation},
		{"negative stock", alice, CreateProductInput{Name: "x", Description: "y", Price: decimal.NewFromInt(1), Category: "shoes", Stock: -1}, domain.ErrValidation},
		{"missing name", alice, CreateProductInput{Description: "y", Price: decimal.NewFromInt(1), Category: "shoes"}, domain.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateProduct(ctx, tc.seller, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	p := mustCreate(t, s, alice, "Runner", "light shoe", domain.CategoryShoes)

	price := decimal.RequireFromString("12.50")
	stock := 0

	t.Run("other seller denied", func(t *testing.T) {
		_, err := s.UpdateProduct(ctx, bob, p.ID, domain.ProductUpdate{Price: &price})
		assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)

		assert.ErrorIs(t, s.DeleteProduct(ctx, bob, p.ID), domain.ErrAuthorizationDenied)
	})

	t.Run("owner updates supplied fields", func(t *testing.T) {
		got, err := s.UpdateProduct(ctx, alice, p.ID, domain.ProductUpdate{Price: &price, Stock: &stock})
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(price))
		assert.Equal(t, 0, got.Stock)
		assert.Equal(t, "Runner", got.Name)

		stored, err := s.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, stored.Price.Equal(price))
	})

	t.Run("invalid update", func(t *testing.T) {
		neg := -3
		_, err := s.UpdateProduct(ctx, alice, p.ID, domain.ProductUpdate{Stock: &neg})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := s.UpdateProduct(ctx, alice, "nope", domain.ProductUpdate{Price: &price})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, s.DeleteProduct(ctx, alice, p.ID))
		_, err := s.GetProductByID(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	runner := mustCreate(t, s, alice, "Runner", "light shoe", domain.CategoryShoes)
	tee := mustCreate(t, s, alice, "Tee", "cotton shirt", domain.CategoryClothes)
	phone := mustCreate(t, s, bob, "Phone", "smart device", domain.CategoryElectronics)

	t.Run("all newest first", func(t *testing.T) {
		got, err := s.ListProducts(ctx, domain.ProductFilter{Category: "all"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{phone.ID, tee.ID, runner.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("category", func(t *testing.T) {
		got, err := s.ListProducts(ctx, domain.ProductFilter{Category: domain.CategoryShoes})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, runner.ID, got[0].ID)
	})

	t.Run("seller", func(t *testing.T) {
		got, err := s.ListProducts(ctx, domain.ProductFilter{SellerID: alice.UserID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("search over description", func(t *testing.T) {
		got, err := s.ListProducts(ctx, domain.ProductFilter{Search: "COTTON"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tee.ID, got[0].ID)
	})
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	descMatch := mustCreate(t, s, alice, "Trail", "a runner for mud", domain.CategoryShoes)
	nameMatch := mustCreate(t, s, alice, "Runner Pro", "fast", domain.CategoryShoes)
	mustCreate(t, s, bob, "Phone", "smart device", domain.CategoryElectronics)

	t.Run("empty query", func(t *testing.T) {
		got, err := s.SearchProducts(ctx, "  ")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("name matches first", func(t *testing.T) {
		got, err := s.SearchProducts(ctx, "runner")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, nameMatch.ID, got[0].ID)
		assert.Equal(t, descMatch.ID, got[1].ID)
	})

	t.Run("category match", func(t *testing.T) {
		got, err := s.SearchProducts(ctx, "electro")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("capped at 20", func(t *testing.T) {
		for i := 0; i < 25; i++ {
			mustCreate(t, s, bob, fmt.Sprintf("Widget %d", i), "gizmo", domain.CategoryElectronics)
		}
		got, err := s.SearchProducts(ctx, "widget")
		require.NoError(t, err)
		assert.Len(t, got, 20)
	})
}
