package repositories

import (
	"errors"

	"github.com/zhenglaizhang/batter-store-api/internal/models"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	CreateOrder(db *gorm.DB, order *models.BatteryOrder) error
	CreatePhotos(db *gorm.DB, photos []models.OrderPhoto) error
	FindOrderByID(db *gorm.DB, orderID string) (*models.BatteryOrder, error)
	ListOrders(db *gorm.DB, userID, status string, offset, limit int) ([]models.BatteryOrder, int64, error)
	UpdateOrder(db *gorm.DB, order *models.BatteryOrder) error
	DeleteOrder(db *gorm.DB, orderID string) error
}

type OrderRepositoryImpl struct{}

func NewOrderRepository() OrderRepository {
	return &OrderRepositoryImpl{}
}

func (r *OrderRepositoryImpl) CreateOrder(db *gorm.DB, order *models.BatteryOrder) error {
	return db.Create(order).Error
}

func (r *OrderRepositoryImpl) CreatePhotos(db *gorm.DB, photos []models.OrderPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	return db.Create(&photos).Error
}

func (r *OrderRepositoryImpl) FindOrderByID(db *gorm.DB, orderID string) (*models.BatteryOrder, error) {
	var order models.BatteryOrder
	err := db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("upload_index ASC")
	}).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) ListOrders(db *gorm.DB, userID, status string, offset, limit int) ([]models.BatteryOrder, int64, error) {
	query := db.Model(&models.BatteryOrder{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.BatteryOrder
	err := query.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("upload_index ASC")
	}).Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderRepositoryImpl) UpdateOrder(db *gorm.DB, order *models.BatteryOrder) error {
	return db.Save(order).Error
}

// DeleteOrder removes the order; photos go with it via the cascade FK.
func (r *OrderRepositoryImpl) DeleteOrder(db *gorm.DB, orderID string) error {
	result := db.Where("id = ?", orderID).Delete(&models.BatteryOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
