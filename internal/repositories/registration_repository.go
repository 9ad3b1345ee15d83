package repositories

import (
	"errors"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrBusinessTypeNotFound = errors.New("business type not found")
	ErrRoleNotFound         = errors.New("merchant role not found")
)

type RegistrationRepository interface {
	CreateRegistration(db *gorm.DB, reg *models.MerchantRegistration) error
	FindRegistrationByID(db *gorm.DB, registrationID string) (*models.MerchantRegistration, error)
	FindRegistrationByUserID(db *gorm.DB, userID string) (*models.MerchantRegistration, error)
	FindRegistrationByPhone(db *gorm.DB, phone string) (*models.MerchantRegistration, error)
	ListRegistrations(db *gorm.DB, status string, offset, limit int) ([]models.MerchantRegistration, int64, error)
	UpdateRegistrationStatus(db *gorm.DB, registrationID string, status models.RegistrationStatus, comment string, reviewTime time.Time) error
	UpdateLicensePath(db *gorm.DB, registrationID, path string) error

	FindBusinessType(db *gorm.DB, id string) (*models.BusinessType, error)
	FindRole(db *gorm.DB, id string) (*models.MerchantRole, error)
	ListBusinessTypes(db *gorm.DB) ([]models.BusinessType, error)
	ListRoles(db *gorm.DB) ([]models.MerchantRole, error)
}

type RegistrationRepositoryImpl struct{}

func NewRegistrationRepository() RegistrationRepository {
	return &RegistrationRepositoryImpl{}
}

func (r *RegistrationRepositoryImpl) CreateRegistration(db *gorm.DB, reg *models.MerchantRegistration) error {
	return db.Create(reg).Error
}

func (r *RegistrationRepositoryImpl) FindRegistrationByID(db *gorm.DB, registrationID string) (*models.MerchantRegistration, error) {
	var reg models.MerchantRegistration
	err := db.Where("registration_id = ?", registrationID).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) FindRegistrationByUserID(db *gorm.DB, userID string) (*models.MerchantRegistration, error) {
	var reg models.MerchantRegistration
	err := db.Where("user_id = ?", userID).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) FindRegistrationByPhone(db *gorm.DB, phone string) (*models.MerchantRegistration, error) {
	var reg models.MerchantRegistration
	err := db.Where("contact_phone = ?", phone).Order("submit_time DESC").First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) ListRegistrations(db *gorm.DB, status string, offset, limit int) ([]models.MerchantRegistration, int64, error) {
	query := db.Model(&models.MerchantRegistration{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var regs []models.MerchantRegistration
	err := query.Order("submit_time DESC").Offset(offset).Limit(limit).Find(&regs).Error
	if err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *RegistrationRepositoryImpl) UpdateRegistrationStatus(db *gorm.DB, registrationID string, status models.RegistrationStatus, comment string, reviewTime time.Time) error {
	result := db.Model(&models.MerchantRegistration{}).
		Where("registration_id = ?", registrationID).
		Updates(map[string]interface{}{
			"status":         status,
			"review_comment": comment,
			"review_time":    reviewTime,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *RegistrationRepositoryImpl) UpdateLicensePath(db *gorm.DB, registrationID, path string) error {
	result := db.Model(&models.MerchantRegistration{}).
		Where("registration_id = ?", registrationID).
		Update("business_license_path", path)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *RegistrationRepositoryImpl) FindBusinessType(db *gorm.DB, id string) (*models.BusinessType, error) {
	var bt models.BusinessType
	err := db.Where("id = ? AND is_active = ?", id, true).First(&bt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessTypeNotFound
		}
		return nil, err
	}
	return &bt, nil
}

func (r *RegistrationRepositoryImpl) FindRole(db *gorm.DB, id string) (*models.MerchantRole, error) {
	var role models.MerchantRole
	err := db.Where("id = ? AND is_active = ?", id, true).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RegistrationRepositoryImpl) ListBusinessTypes(db *gorm.DB) ([]models.BusinessType, error) {
	var types []models.BusinessType
	err := db.Where("is_active = ?", true).Order("sort_order ASC").Find(&types).Error
	return types, err
}

func (r *RegistrationRepositoryImpl) ListRoles(db *gorm.DB) ([]models.MerchantRole, error) {
	var roles []models.MerchantRole
	err := db.Where("is_active = ?", true).Find(&roles).Error
	return roles, err
}
