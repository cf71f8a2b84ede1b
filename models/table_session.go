package models

import "time"

const (
	SessionActive = "active"
	SessionClosed = "closed"
)

// TableSession is the shared tab for a table: every diner holding the token
// submits orders against the same session.
type TableSession struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TableID   uint       `gorm:"not null;index" json:"table_id"`
	Table     Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	OpenedBy  uint       `gorm:"not null" json:"opened_by"`
	Opener    User       `gorm:"foreignKey:OpenedBy;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Token     string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	Status    string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// Expired reports whether the session has passed its own expiry, regardless
// of the stored status.
func (s *TableSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
