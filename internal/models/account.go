package models

import (
	"time"
)

// Account is a phone-bound login identity. A merchant gets one at
// registration time; login requires it to exist already.
type Account struct {
	BaseModel
	Phone string `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
}

func (Account) TableName() string {
	return "accounts"
}

// SmsCode records one issued verification code. UsedAt is set when the
// code is consumed by login or registration.
type SmsCode struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string     `gorm:"type:varchar(20);index;not null" json:"phone"`
	Code      string     `gorm:"type:varchar(10);not null" json:"-"`
	SentAt    time.Time  `gorm:"not null" json:"sent_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	IPAddress string     `gorm:"type:varchar(45)" json:"-"`
}

func (SmsCode) TableName() string {
	return "sms_codes"
}
