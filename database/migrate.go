package database

import (
	"github.com/zhenglaizhang/batter-store-api/internal/logger"
	"github.com/zhenglaizhang/batter-store-api/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.SmsCode{},
		&models.BusinessType{},
		&models.MerchantRole{},
		&models.MerchantRegistration{},
		&models.BatteryOrder{},
		&models.OrderPhoto{},
	)
}

// SeedLookups inserts the default business types and merchant roles
// when the tables are empty.
func SeedLookups(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.BusinessType{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		types := []models.BusinessType{
			{ID: "bt_repair_shop", Name: "汽修店", Description: "Vehicle repair shop", SortOrder: 1, IsActive: true},
			{ID: "bt_4s_store", Name: "4S店", Description: "Dealership service center", SortOrder: 2, IsActive: true},
			{ID: "bt_parts_dealer", Name: "配件经销商", Description: "Parts dealer", SortOrder: 3, IsActive: true},
			{ID: "bt_recycler", Name: "回收站", Description: "Recycling station", SortOrder: 4, IsActive: true},
		}
		if err := db.Create(&types).Error; err != nil {
			return err
		}
		logger.Info("seeded business types", "count", len(types))
	}

	if err := db.Model(&models.MerchantRole{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		roles := []models.MerchantRole{
			{ID: "role_owner", Name: "店主", Description: "Store owner", Permissions: datatypes.JSON(`["orders:write","orders:read","store:manage"]`), IsActive: true},
			{ID: "role_clerk", Name: "店员", Description: "Store clerk", Permissions: datatypes.JSON(`["orders:write","orders:read"]`), IsActive: true},
		}
		if err := db.Create(&roles).Error; err != nil {
			return err
		}
		logger.Info("seeded merchant roles", "count", len(roles))
	}

	return nil
}
