package models

import (
	"time"
)

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// MerchantRegistration is a recycling merchant's onboarding application.
// Business type and role names are denormalized at submit time so later
// lookup edits do not rewrite history.
type MerchantRegistration struct {
	RegistrationID      string             `gorm:"type:varchar(64);primaryKey" json:"registration_id"`
	UserID              string             `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"`
	BusinessTypeID      string             `gorm:"type:varchar(64);not null" json:"business_type_id"`
	BusinessTypeName    string             `gorm:"type:varchar(100)" json:"business_type_name"`
	RoleID              string             `gorm:"type:varchar(64);not null" json:"role_id"`
	RoleName            string             `gorm:"type:varchar(100)" json:"role_name"`
	StoreName           string             `gorm:"type:varchar(200);not null" json:"store_name"`
	ContactName         string             `gorm:"type:varchar(100);not null" json:"contact_name"`
	ContactPhone        string             `gorm:"type:varchar(20);index;not null" json:"contact_phone"`
	Address             string             `gorm:"type:varchar(500)" json:"address"`
	BusinessLicensePath *string            `gorm:"type:varchar(500)" json:"business_license_path,omitempty"`
	Status              RegistrationStatus `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	SubmitTime          time.Time          `json:"submit_time"`
	ReviewTime          *time.Time         `json:"review_time,omitempty"`
	ReviewComment       string             `gorm:"type:varchar(500)" json:"review_comment"`
}

func (MerchantRegistration) TableName() string {
	return "merchant_registrations"
}
