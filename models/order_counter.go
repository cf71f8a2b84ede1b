package models

import "time"

// OrderCounter holds the last issued sequence for one (day, table) pair.
// Incremented with an upsert inside the order transaction so concurrent
// requests cannot read the same value.
type OrderCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Day       string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_counter_day_table" json:"day"`
	TableID   uint      `gorm:"not null;uniqueIndex:idx_counter_day_table" json:"table_id"`
	LastSeq   int       `gorm:"not null;default:0" json:"last_seq"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
