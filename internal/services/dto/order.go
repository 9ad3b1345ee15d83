package dto

import (
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/models"
)

// BatteryItem is one line of a weight-based order.
type BatteryItem struct {
	Type      string  `json:"type" validate:"required"`
	WeightKg  float64 `json:"weight_kg" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gt=0"`
	Subtotal  float64 `json:"subtotal" validate:"gt=0"`
}

type CreateWeightOrderRequest struct {
	Batteries   []BatteryItem `json:"batteries" validate:"required,min=1,dive"`
	TotalPrice  float64       `json:"total_price" validate:"gt=0"`
	TotalWeight float64       `json:"total_weight" validate:"gt=0"`
	PickupDate  string        `json:"pickup_date" validate:"omitempty"`
}

// UpdateOrderRequest edits an existing order. Nil fields are left
// untouched. PhotoRefs appends pre-stored evidence references.
type UpdateOrderRequest struct {
	Status      *string       `json:"status,omitempty"`
	PickupDate  *string       `json:"pickup_date,omitempty"`
	Batteries   []BatteryItem `json:"batteries,omitempty" validate:"omitempty,dive"`
	TotalPrice  *float64      `json:"total_price,omitempty" validate:"omitempty,gt=0"`
	TotalWeight *float64      `json:"total_weight,omitempty" validate:"omitempty,gt=0"`
	PhotoRefs   []PhotoRef    `json:"photo_refs,omitempty" validate:"omitempty,dive"`
}

// PhotoRef attaches an already stored object to an order by reference.
type PhotoRef struct {
	Ref         string `json:"ref" validate:"required"`
	Filename    string `json:"filename"`
	UploadIndex int    `json:"upload_index"`
}

type OrderListQuery struct {
	Status string `form:"status" json:"status"`
	UserID string `form:"user_id" json:"user_id"`
}

// PhotoView is an order photo with its resolved download URL.
type PhotoView struct {
	PhotoID          string    `json:"photo_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	UploadIndex      int       `json:"upload_index"`
	URL              string    `json:"url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type OrderView struct {
	models.BatteryOrder
	PhotoViews []PhotoView `json:"photo_views"`
}

type OrderListResponse struct {
	Orders []OrderView `json:"orders"`
	Total  int64       `json:"total"`
	Page   int         `json:"page"`
	Size   int         `json:"page_size"`
}
