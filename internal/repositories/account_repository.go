package repositories

import (
	"errors"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrSmsCodeNotFound = errors.New("sms code not found")
)

type AccountRepository interface {
	CreateAccount(db *gorm.DB, account *models.Account) error
	FindAccountByPhone(db *gorm.DB, phone string) (*models.Account, error)

	CreateSmsCode(db *gorm.DB, code *models.SmsCode) error
	FindLatestSmsCode(db *gorm.DB, phone string) (*models.SmsCode, error)
	MarkSmsCodeUsed(db *gorm.DB, id uint, usedAt time.Time) error
}

type AccountRepositoryImpl struct{}

func NewAccountRepository() AccountRepository {
	return &AccountRepositoryImpl{}
}

func (r *AccountRepositoryImpl) CreateAccount(db *gorm.DB, account *models.Account) error {
	return db.Create(account).Error
}

func (r *AccountRepositoryImpl) FindAccountByPhone(db *gorm.DB, phone string) (*models.Account, error) {
	var account models.Account
	err := db.Where("phone = ?", phone).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) CreateSmsCode(db *gorm.DB, code *models.SmsCode) error {
	return db.Create(code).Error
}

// FindLatestSmsCode returns the most recently issued code for a phone,
// used or not.
func (r *AccountRepositoryImpl) FindLatestSmsCode(db *gorm.DB, phone string) (*models.SmsCode, error) {
	var code models.SmsCode
	err := db.Where("phone = ?", phone).Order("sent_at DESC").First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSmsCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *AccountRepositoryImpl) MarkSmsCodeUsed(db *gorm.DB, id uint, usedAt time.Time) error {
	return db.Model(&models.SmsCode{}).Where("id = ?", id).Update("used_at", usedAt).Error
}
