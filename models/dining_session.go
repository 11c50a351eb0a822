package models

import "time"

// DiningSession mirrors a browsing session's table binding on the server side.
// It is a non-authoritative convenience record; the client keeps its own copy.
type DiningSession struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionKey string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_key"`
	TableID    *uint     `gorm:"index" json:"table_id,omitempty"`
	Table      *Table    `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"table,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
