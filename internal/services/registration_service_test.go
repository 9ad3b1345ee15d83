package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/models"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFixtures() (map[string]*models.BusinessType, map[string]*models.MerchantRole) {
	return map[string]*models.BusinessType{
			"bt_repair_shop": {ID: "bt_repair_shop", Name: "汽修店", IsActive: true},
		}, map[string]*models.MerchantRole{
			"role_owner": {ID: "role_owner", Name: "店主", IsActive: true},
		}
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Phone:          "13812345678",
		SmsCode:        "123456",
		BusinessTypeID: "bt_repair_shop",
		RoleID:         "role_owner",
		StoreName:      "电池回收一店",
		ContactName:    "王芳",
		Address:        "上海市浦东新区",
	}
}

func TestRegister(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	accounts := &fakeAccountRepo{}
	accounts.CreateSmsCode(nil, &models.SmsCode{Phone: "13812345678", Code: "123456", SentAt: now})

	types, roles := lookupFixtures()
	regs := &fakeRegistrationRepo{businessTypes: types, roles: roles}

	authSvc := newTestAuthService(accounts)
	authSvc.now = func() time.Time { return now.Add(time.Minute) }
	svc := NewRegistrationService(regs, accounts, authSvc)

	resp, err := svc.Register(context.Background(), db, registerRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.UserID, "user_"))
	assert.True(t, strings.HasPrefix(resp.RegistrationID, "reg_"))
	assert.Equal(t, string(models.RegistrationStatusPending), resp.Status)

	require.NotNil(t, regs.createdReg)
	assert.Equal(t, resp.UserID, regs.createdReg.UserID)
	assert.Equal(t, "汽修店", regs.createdReg.BusinessTypeName)
	assert.Equal(t, "店主", regs.createdReg.RoleName)
	assert.Equal(t, "13812345678", regs.createdReg.ContactPhone)

	// Account created and the SMS code consumed inside the transaction.
	require.Contains(t, accounts.accounts, "13812345678")
	assert.NotNil(t, accounts.codes[0].UsedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicatePhone(t *testing.T) {
	db, _ := newMockDB(t)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	accounts := &fakeAccountRepo{}
	account := &models.Account{Phone: "13812345678"}
	account.ID = "user_existing"
	require.NoError(t, accounts.CreateAccount(nil, account))
	accounts.CreateSmsCode(nil, &models.SmsCode{Phone: "13812345678", Code: "123456", SentAt: now})

	types, roles := lookupFixtures()
	regs := &fakeRegistrationRepo{businessTypes: types, roles: roles}

	authSvc := newTestAuthService(accounts)
	authSvc.now = func() time.Time { return now.Add(time.Minute) }
	svc := NewRegistrationService(regs, accounts, authSvc)

	_, err := svc.Register(context.Background(), db, registerRequest())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode)
}

func TestRegisterUnknownLookups(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	types, roles := lookupFixtures()

	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"unknown business type", func(r *dto.RegisterRequest) { r.BusinessTypeID = "bt_nope" }},
		{"unknown role", func(r *dto.RegisterRequest) { r.RoleID = "role_nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newMockDB(t)
			accounts := &fakeAccountRepo{}
			accounts.CreateSmsCode(nil, &models.SmsCode{Phone: "13812345678", Code: "123456", SentAt: now})

			authSvc := newTestAuthService(accounts)
			authSvc.now = func() time.Time { return now.Add(time.Minute) }
			svc := NewRegistrationService(&fakeRegistrationRepo{businessTypes: types, roles: roles}, accounts, authSvc)

			req := registerRequest()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), db, req)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
		})
	}
}

func TestRegisterBadSmsCode(t *testing.T) {
	db, _ := newMockDB(t)

	accounts := &fakeAccountRepo{}
	authSvc := newTestAuthService(accounts)
	svc := NewRegistrationService(&fakeRegistrationRepo{}, accounts, authSvc)

	req := registerRequest()
	_, err := svc.Register(context.Background(), db, req)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeSmsCodeInvalid, appErr.Code)
}

func TestReview(t *testing.T) {
	reg := approvedReg("user_1")
	reg.Status = models.RegistrationStatusPending
	regs := &fakeRegistrationRepo{reg: reg}

	svc := NewRegistrationService(regs, &fakeAccountRepo{}, newTestAuthService(&fakeAccountRepo{}))

	updated, err := svc.Review(context.Background(), nil, "reg_1", &dto.ReviewRegistrationRequest{
		Status:  string(models.RegistrationStatusApproved),
		Comment: "documents verified",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationStatusApproved, updated.Status)
	assert.Equal(t, "documents verified", updated.ReviewComment)
}

func TestReviewNotFound(t *testing.T) {
	svc := NewRegistrationService(&fakeRegistrationRepo{}, &fakeAccountRepo{}, newTestAuthService(&fakeAccountRepo{}))

	_, err := svc.Review(context.Background(), nil, "reg_missing", &dto.ReviewRegistrationRequest{
		Status: string(models.RegistrationStatusRejected),
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestRequireApproved(t *testing.T) {
	tests := []struct {
		name    string
		reg     *models.MerchantRegistration
		wantErr bool
	}{
		{"approved", approvedReg("user_1"), false},
		{"pending", func() *models.MerchantRegistration {
			r := approvedReg("user_1")
			r.Status = models.RegistrationStatusPending
			return r
		}(), true},
		{"rejected", func() *models.MerchantRegistration {
			r := approvedReg("user_1")
			r.Status = models.RegistrationStatusRejected
			return r
		}(), true},
		{"missing", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRegistrationService(&fakeRegistrationRepo{reg: tt.reg}, &fakeAccountRepo{}, newTestAuthService(&fakeAccountRepo{}))

			reg, err := svc.RequireApproved(nil, "user_1")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "user_1", reg.UserID)
				return
			}

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeRegistrationNotApproved, appErr.Code)
			assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
		})
	}
}
