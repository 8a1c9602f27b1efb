package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryShoes       = "shoes"
	CategoryClothes     = "clothes"
	CategoryElectronics = "electronics"

	DefaultProductImage = "/diverse-products-still-life.png"
)

var ValidCategories = map[string]bool{
	CategoryShoes:       true,
	CategoryClothes:     true,
	CategoryElectronics: true,
}

type Product struct {
	ID          string          `gorm:"primaryKey;column:id;type:text" json:"id"`
	Name        string          `gorm:"column:name;type:text;not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric" json:"price"`
	Category    string          `gorm:"column:category;type:text;index" json:"category"`
	Image       string          `gorm:"column:image;type:text" json:"image"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	SellerID    string          `gorm:"column:seller_id;type:text;index" json:"sellerId"`
	Rating      float64         `gorm:"column:rating;default:0" json:"rating"`
	Reviews     int             `gorm:"column:reviews;default:0" json:"reviews"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

func (p Product) GetID() string {
	return p.ID
}

// ProductFilter narrows ListProducts. Empty fields do not filter.
type ProductFilter struct {
	Category string
	SellerID string
	Search   string
}

// ProductUpdate carries a partial product edit; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	Stock       *int
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
