package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order     Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`

	// Price snapshots captured at order time. UnitPrice is the product base
	// price, OptionsPrice the sum over the item's options,
	// Subtotal = Quantity * (UnitPrice + OptionsPrice).
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	OptionsPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"options_price"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	Notes     string            `gorm:"type:text" json:"notes"`
	Options   []OrderItemOption `gorm:"foreignKey:OrderItemID" json:"options"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
}

type OrderItemOption struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderItemID     uint            `gorm:"not null;index" json:"order_item_id"`
	OrderItem       OrderItem       `gorm:"foreignKey:OrderItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductOptionID uint            `gorm:"not null" json:"product_option_id"`
	ProductOption   ProductOption   `gorm:"foreignKey:ProductOptionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product_option"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"additional_price"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}
