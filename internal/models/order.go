package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrderTypePhotoUpload = "photo_upload"
	OrderTypeWeightBased = "weight_based"
)

// BatteryOrder is one pickup request. Store and contact fields are
// snapshotted from the registration at creation time. Monetary and
// weight values are stored as decimal strings to avoid float drift.
type BatteryOrder struct {
	ID           string         `gorm:"type:varchar(64);primaryKey" json:"order_id"`
	UserID       string         `gorm:"type:varchar(64);index;not null" json:"user_id"`
	StoreName    string         `gorm:"type:varchar(200)" json:"store_name"`
	ContactName  string         `gorm:"type:varchar(100)" json:"contact_name"`
	ContactPhone string         `gorm:"type:varchar(20)" json:"contact_phone"`
	Address      string         `gorm:"type:varchar(500)" json:"address"`
	Status       string         `gorm:"type:varchar(30);index;default:'pending'" json:"status"`
	OrderType    string         `gorm:"type:varchar(20);default:'photo_upload'" json:"order_type"`
	TotalPhotos  int            `gorm:"default:0" json:"total_photos"`
	PickupDate   *time.Time     `json:"pickup_date,omitempty"`
	Batteries    datatypes.JSON `json:"batteries,omitempty"`
	TotalPrice   string         `gorm:"type:decimal(12,2);default:0" json:"total_price"`
	TotalWeight  string         `gorm:"type:decimal(12,2);default:0" json:"total_weight"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Photos []OrderPhoto `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

func (BatteryOrder) TableName() string {
	return "battery_orders"
}

// OrderPhoto is one stored evidence object attached to an order.
// FilePath is the opaque stored reference; its shape says whether the
// bytes live in remote or local storage (see storage.ResolveRef).
// UploadIndex preserves the client's original ordering.
type OrderPhoto struct {
	ID               string    `gorm:"type:varchar(64);primaryKey" json:"photo_id"`
	OrderID          string    `gorm:"type:varchar(64);index;not null" json:"order_id"`
	UserID           string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Filename         string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalFilename string    `gorm:"type:varchar(255)" json:"original_filename"`
	FilePath         string    `gorm:"type:varchar(500);not null" json:"file_path"`
	FileSize         int64     `gorm:"default:0" json:"file_size"`
	MimeType         string    `gorm:"type:varchar(100)" json:"mime_type"`
	UploadIndex      int       `gorm:"default:0" json:"upload_index"`
	CreatedAt        time.Time `json:"created_at"`
}

func (OrderPhoto) TableName() string {
	return "order_photos"
}
