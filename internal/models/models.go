package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
	RoleBoth   = "both"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Account is the credential-holder capability shared by buyers and vendors.
type Account interface {
	AccountID() uint
	AccountRole() string
	HashedPassword() string
}

type Buyer struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"      json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (b *Buyer) AccountID() uint        { return b.ID }
func (b *Buyer) AccountRole() string    { return RoleBuyer }
func (b *Buyer) HashedPassword() string { return b.PasswordHash }

type Vendor struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"      json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Products     []Product `gorm:"many2many:vendor_products" json:"products,omitempty"`
}

func (v *Vendor) AccountID() uint        { return v.ID }
func (v *Vendor) AccountRole() string    { return RoleVendor }
func (v *Vendor) HashedPassword() string { return v.PasswordHash }

type Product struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name      string          `gorm:"not null"                   json:"name"`
	Category  string          `gorm:"index"                      json:"category"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ImageURL  string          `json:"image_url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// VendorProduct is the vendor_products join row; the composite key keeps pairs unique.
type VendorProduct struct {
	VendorID  uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

type Cart struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	BuyerID   uint      `gorm:"uniqueIndex;not null"                        json:"buyer_id"`
	Buyer     *Buyer    `gorm:"constraint:OnDelete:CASCADE"                 json:"-"`
	Products  []Product `gorm:"many2many:cart_products"                     json:"products"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartProduct struct {
	CartID    uint `gorm:"primaryKey"`
	ProductID uint `gorm:"primaryKey;index"`
}

type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	BuyerID    uint            `gorm:"index;not null"                       json:"buyer_id"`
	Buyer      *Buyer          `json:"-"`
	VendorID   uint            `gorm:"index;not null"                       json:"vendor_id"`
	Vendor     *Vendor         `json:"-"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"total_price"`
	Status     OrderStatus     `gorm:"type:varchar(16);not null;default:Pending" json:"status"`
	Items      []OrderItem     `gorm:"constraint:OnDelete:CASCADE"          json:"items,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderItem is one checked-out product line. Price is the unit price at checkout time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"index;not null"              json:"product_id"`
	Quantity  int             `gorm:"not null;default:1"          json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	ProductID uint      `gorm:"index;not null"                           json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE"              json:"-"`
	VendorID  uint      `gorm:"index;not null"                           json:"vendor_id"`
	Vendor    *Vendor   `json:"-"`
	BuyerID   uint      `gorm:"index;not null"                           json:"buyer_id"`
	Buyer     *Buyer    `json:"-"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RevokedToken is an append-only record of token identifiers that must no longer authorize.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	JTI       string    `gorm:"column:jti;size:64;uniqueIndex;not null" json:"jti"`
	TokenType string    `gorm:"size:16;not null;default:access" json:"token_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "token_blocklist"
}
