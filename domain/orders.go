package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Orders struct {
	ID              string          `gorm:"primaryKey;column:id;type:text" json:"id"`
	UserID          string          `gorm:"column:user_id;type:text;index" json:"userId"`
	Items           []OrderItem     `gorm:"column:items;serializer:json" json:"items"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric" json:"total"`
	Status          string          `gorm:"column:status;type:text;index" json:"status"`
	ShippingAddress Address         `gorm:"column:shipping_address;serializer:json" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"column:payment_method;type:text" json:"paymentMethod"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Orders) TableName() string {
	return "orders"
}

func (o Orders) GetID() string {
	return o.ID
}

// HasProductFrom reports whether any line belongs to one of the given product ids.
func (o Orders) HasProductFrom(productIDs map[string]bool) bool {
	for _, item := range o.Items {
		if productIDs[item.ProductID] {
			return true
		}
	}
	return false
}
