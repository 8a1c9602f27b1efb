package domain

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type User struct {
	ID         string    `gorm:"primaryKey;column:id;type:text" json:"id"`
	Email      string    `gorm:"column:email;unique;not null" json:"email"`
	Password   string    `gorm:"column:password;not null" json:"password,omitempty"`
	Role       string    `gorm:"column:role;default:customer" json:"role"`
	FirstName  string    `gorm:"column:first_name;not null" json:"firstName"`
	LastName   string    `gorm:"column:last_name;not null" json:"lastName"`
	Phone      string    `gorm:"column:phone" json:"phone,omitempty"`
	Address    *Address  `gorm:"column:address;serializer:json" json:"address,omitempty"`
	IsVerified bool      `gorm:"column:is_verified;default:false" json:"isVerified"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u User) GetID() string {
	return u.ID
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Public strips the credential hash before the user leaves the service layer.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Identity is what a verified session token carries.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (i Identity) IsSeller() bool {
	return i.Role == RoleSeller
}
