package domain

import "time"

type CartItem struct {
	ID        string    `gorm:"primaryKey;column:id;type:text" json:"id"`
	UserID    string    `gorm:"column:user_id;type:text;index;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID string    `gorm:"column:product_id;type:text;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (c CartItem) GetID() string {
	return c.ID
}

// CartLine is a cart item joined with the live product it points to.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}
