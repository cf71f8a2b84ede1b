package models

import "time"

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ZoneID    uint      `gorm:"not null" json:"zone_id"`
	Zone      Zone      `gorm:"foreignKey:ZoneID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"zone"`
	Number    string    `gorm:"type:varchar(50);not null" json:"number"`
	Status    string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
