package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/models"
	"github.com/zhenglaizhang/batter-store-api/internal/repositories"
	"github.com/zhenglaizhang/batter-store-api/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockDB backs a gorm.DB with sqlmock so transaction boundaries can
// be asserted while repositories are faked out.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

type fakeRemote struct {
	putErr     error
	presignErr error
	putKeys    []string
}

func (f *fakeRemote) Put(ctx context.Context, ownerID, filename string, data []byte, openid string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	key := storage.RemoteKey(ownerID, filename)
	f.putKeys = append(f.putKeys, key)
	return key, nil
}

func (f *fakeRemote) PresignedURL(key string, ttl time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://signed.example.com/" + key, nil
}

func (f *fakeRemote) Delete(ctx context.Context, key string) error {
	return nil
}

type fakeLocal struct {
	saveErr    error
	savedPaths []string
}

func (f *fakeLocal) SavePhoto(ownerID, filename string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := "uploads/" + ownerID + "/" + filename
	f.savedPaths = append(f.savedPaths, path)
	return path, nil
}

func (f *fakeLocal) SaveLicense(ownerID, filename string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := "uploads/business_licenses/" + ownerID + "/" + filename
	f.savedPaths = append(f.savedPaths, path)
	return path, nil
}

func (f *fakeLocal) URLFor(path string) string {
	return "/" + path
}

func (f *fakeLocal) List() ([]storage.LocalFile, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	createOrderErr  error
	createPhotosErr error
	updateErr       error
	deleteErr       error
	findErr         error

	createdOrder  *models.BatteryOrder
	createdPhotos []models.OrderPhoto
	updatedOrder  *models.BatteryOrder
	stored        map[string]*models.BatteryOrder
}

func (f *fakeOrderRepo) CreateOrder(db *gorm.DB, order *models.BatteryOrder) error {
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	f.createdOrder = order
	return nil
}

func (f *fakeOrderRepo) CreatePhotos(db *gorm.DB, photos []models.OrderPhoto) error {
	if f.createPhotosErr != nil {
		return f.createPhotosErr
	}
	f.createdPhotos = append(f.createdPhotos, photos...)
	return nil
}

func (f *fakeOrderRepo) FindOrderByID(db *gorm.DB, orderID string) (*models.BatteryOrder, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if order, ok := f.stored[orderID]; ok {
		return order, nil
	}
	return nil, repositories.ErrOrderNotFound
}

func (f *fakeOrderRepo) ListOrders(db *gorm.DB, userID, status string, offset, limit int) ([]models.BatteryOrder, int64, error) {
	var out []models.BatteryOrder
	for _, o := range f.stored {
		if userID != "" && o.UserID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateOrder(db *gorm.DB, order *models.BatteryOrder) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedOrder = order
	if f.stored == nil {
		f.stored = map[string]*models.BatteryOrder{}
	}
	f.stored[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(db *gorm.DB, orderID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.stored[orderID]; !ok {
		return repositories.ErrOrderNotFound
	}
	delete(f.stored, orderID)
	return nil
}

// fakeRegistrationRepo serves one registration, keyed by user ID.
type fakeRegistrationRepo struct {
	reg           *models.MerchantRegistration
	businessTypes map[string]*models.BusinessType
	roles         map[string]*models.MerchantRole

	createdReg      *models.MerchantRegistration
	licensePath     string
	statusUpdatedTo models.RegistrationStatus
}

func (f *fakeRegistrationRepo) CreateRegistration(db *gorm.DB, reg *models.MerchantRegistration) error {
	f.createdReg = reg
	return nil
}

func (f *fakeRegistrationRepo) FindRegistrationByID(db *gorm.DB, registrationID string) (*models.MerchantRegistration, error) {
	if f.reg != nil && f.reg.RegistrationID == registrationID {
		return f.reg, nil
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) FindRegistrationByUserID(db *gorm.DB, userID string) (*models.MerchantRegistration, error) {
	if f.reg != nil && f.reg.UserID == userID {
		return f.reg, nil
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) FindRegistrationByPhone(db *gorm.DB, phone string) (*models.MerchantRegistration, error) {
	if f.reg != nil && f.reg.ContactPhone == phone {
		return f.reg, nil
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ListRegistrations(db *gorm.DB, status string, offset, limit int) ([]models.MerchantRegistration, int64, error) {
	if f.reg == nil {
		return nil, 0, nil
	}
	return []models.MerchantRegistration{*f.reg}, 1, nil
}

func (f *fakeRegistrationRepo) UpdateRegistrationStatus(db *gorm.DB, registrationID string, status models.RegistrationStatus, comment string, reviewTime time.Time) error {
	if f.reg == nil || f.reg.RegistrationID != registrationID {
		return repositories.ErrRegistrationNotFound
	}
	f.reg.Status = status
	f.reg.ReviewComment = comment
	f.statusUpdatedTo = status
	return nil
}

func (f *fakeRegistrationRepo) UpdateLicensePath(db *gorm.DB, registrationID, path string) error {
	if f.reg == nil || f.reg.RegistrationID != registrationID {
		return repositories.ErrRegistrationNotFound
	}
	f.licensePath = path
	return nil
}

func (f *fakeRegistrationRepo) FindBusinessType(db *gorm.DB, id string) (*models.BusinessType, error) {
	if bt, ok := f.businessTypes[id]; ok {
		return bt, nil
	}
	return nil, repositories.ErrBusinessTypeNotFound
}

func (f *fakeRegistrationRepo) FindRole(db *gorm.DB, id string) (*models.MerchantRole, error) {
	if role, ok := f.roles[id]; ok {
		return role, nil
	}
	return nil, repositories.ErrRoleNotFound
}

func (f *fakeRegistrationRepo) ListBusinessTypes(db *gorm.DB) ([]models.BusinessType, error) {
	var out []models.BusinessType
	for _, bt := range f.businessTypes {
		out = append(out, *bt)
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListRoles(db *gorm.DB) ([]models.MerchantRole, error) {
	var out []models.MerchantRole
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

type fakeAccountRepo struct {
	accounts map[string]*models.Account
	codes    []*models.SmsCode

	createErr error
}

func (f *fakeAccountRepo) CreateAccount(db *gorm.DB, account *models.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.accounts == nil {
		f.accounts = map[string]*models.Account{}
	}
	f.accounts[account.Phone] = account
	return nil
}

func (f *fakeAccountRepo) FindAccountByPhone(db *gorm.DB, phone string) (*models.Account, error) {
	if a, ok := f.accounts[phone]; ok {
		return a, nil
	}
	return nil, repositories.ErrAccountNotFound
}

func (f *fakeAccountRepo) CreateSmsCode(db *gorm.DB, code *models.SmsCode) error {
	code.ID = uint(len(f.codes) + 1)
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeAccountRepo) FindLatestSmsCode(db *gorm.DB, phone string) (*models.SmsCode, error) {
	var latest *models.SmsCode
	for _, c := range f.codes {
		if c.Phone != phone {
			continue
		}
		if latest == nil || c.SentAt.After(latest.SentAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, repositories.ErrSmsCodeNotFound
	}
	return latest, nil
}

func (f *fakeAccountRepo) MarkSmsCodeUsed(db *gorm.DB, id uint, usedAt time.Time) error {
	for _, c := range f.codes {
		if c.ID == id {
			c.UsedAt = &usedAt
			return nil
		}
	}
	return errors.New("sms code not found")
}
