package models

import (
	"gorm.io/datatypes"
)

// BusinessType is a registration lookup (e.g. repair shop, 4S store).
type BusinessType struct {
	ID          string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:varchar(300)" json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

func (BusinessType) TableName() string {
	return "business_types"
}

// MerchantRole is a registration lookup (e.g. owner, clerk) with the
// permission set granted to merchants holding it.
type MerchantRole struct {
	ID          string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:varchar(300)" json:"description"`
	Permissions datatypes.JSON `json:"permissions"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
}

func (MerchantRole) TableName() string {
	return "merchant_roles"
}
