package models

import "time"

type MenuItem struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	CategoryID      uint         `gorm:"not null;index" json:"category_id"`
	Category        MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name            string       `gorm:"type:varchar(200);not null" json:"name"`
	Description     string       `gorm:"type:text" json:"description"`
	Price           float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL        *string      `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsAvailable     bool         `gorm:"not null;default:true" json:"is_available"`
	IsActive        bool         `gorm:"not null;default:true" json:"is_active"`
	PreparationTime *int         `json:"preparation_time,omitempty"` // minutes
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updated_at"`
}
