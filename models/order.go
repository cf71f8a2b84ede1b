package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Only Order.status and its timestamps mutate after
// creation; items and options are immutable price snapshots.
const (
	StatusPending       = "pending"
	StatusConfirmed     = "confirmed"
	StatusInPreparation = "in_preparation"
	StatusReady         = "ready"
	StatusDelivered     = "delivered"
	StatusCancelled     = "cancelled"
)

type Order struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	TableID   uint          `gorm:"not null;index" json:"table_id"`
	Table     Table         `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	UserID    uint          `gorm:"not null" json:"user_id"`
	User      User          `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	SessionID *uint         `gorm:"index" json:"session_id,omitempty"`
	Session   *TableSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	Number string `gorm:"type:varchar(30);not null;uniqueIndex" json:"number"`
	Status string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Discount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`

	ClientNotes  string `gorm:"type:text" json:"client_notes"`
	KitchenNotes string `gorm:"type:text" json:"kitchen_notes"`

	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	InPreparationAt *time.Time `json:"in_preparation_at,omitempty"`
	ReadyAt         *time.Time `json:"ready_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`

	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}
