package models

import (
	"time"
)

// BaseModel uses application-generated string IDs; MySQL has no native
// UUID default, so services assign IDs before insert.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
