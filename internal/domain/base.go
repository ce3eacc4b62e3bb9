package domain

import "time"

// BaseModel holds the surrogate primary key and the created/last-modified
// timestamp pair maintained by GORM on every entity
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
