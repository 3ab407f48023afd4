package models

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserName  string `gorm:"not null"                 json:"user_name"`
	Email     string `gorm:"not null"                 json:"email"`
	IsDeleted bool   `gorm:"default:false"            json:"is_deleted"`
	Cart      *Cart  `gorm:"foreignKey:UserID"        json:"cart,omitempty"`
}

type Product struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string        `gorm:"not null"                 json:"name"`
	IsDeleted    bool          `gorm:"default:false"            json:"is_deleted"`
	CartProducts []CartProduct `gorm:"foreignKey:ProductID"     json:"cart_products,omitempty"`
}

type Cart struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint          `gorm:"index;not null"           json:"user_id"`
	User         *User         `gorm:"foreignKey:UserID"        json:"user,omitempty"`
	IsDeleted    bool          `gorm:"default:false"            json:"is_deleted"`
	CartProducts []CartProduct `gorm:"foreignKey:CartID"        json:"cart_products,omitempty"`
}

// CartProduct is the join row between a cart and a product. The active
// (cart, product) pair is kept unique by an existence check in the create
// handler rather than a composite key, so soft-deleted rows do not block
// re-adding a product.
type CartProduct struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"        json:"id"`
	CartID    uint     `gorm:"index:idx_cart_product;not null" json:"cart_id"`
	ProductID uint     `gorm:"index:idx_cart_product;not null" json:"product_id"`
	Cart      *Cart    `gorm:"foreignKey:CartID"               json:"cart,omitempty"`
	Product   *Product `gorm:"foreignKey:ProductID"            json:"product,omitempty"`
	Quantity  int      `gorm:"check:quantity>0"                json:"quantity"`
	IsDeleted bool     `gorm:"default:false"                   json:"is_deleted"`
}

// Account is the identity record behind register/login/confirm. It is kept
// separate from the domain User row.
type Account struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email             string    `gorm:"unique;not null"          json:"email"`
	PasswordHash      string    `gorm:"not null"                 json:"-"`
	Role              string    `gorm:"not null"                 json:"role"`
	Confirmed         bool      `gorm:"default:false"            json:"confirmed"`
	ConfirmationToken string    `json:"-"`
	TokenExpiry       time.Time `json:"-"`
}
