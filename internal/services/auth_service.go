package services

import (
	"context"
	"net/http"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/auth"
	"github.com/zhenglaizhang/batter-store-api/internal/logger"
	"github.com/zhenglaizhang/batter-store-api/internal/models"
	"github.com/zhenglaizhang/batter-store-api/internal/repositories"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	// mockSmsCode is issued instead of a real SMS send; the gateway
	// integration is still pending.
	mockSmsCode       = "123456"
	smsResendInterval = 60 * time.Second
	smsCodeTTL        = 5 * time.Minute
)

// AuthConfig carries token and operator settings from config.
type AuthConfig struct {
	JWTSecret     string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
	AdminUsername string
	AdminPassHash string
}

type AuthService interface {
	SendSmsCode(ctx context.Context, db *gorm.DB, phone, ip string) (*dto.SendSmsResponse, error)
	VerifySmsCode(db *gorm.DB, phone, code string) error
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

type AuthServiceImpl struct {
	accounts repositories.AccountRepository
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(accounts repositories.AccountRepository, cfg AuthConfig) *AuthServiceImpl {
	return &AuthServiceImpl{
		accounts: accounts,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SendSmsCode issues a verification code, throttled to one per phone
// per resend interval.
func (s *AuthServiceImpl) SendSmsCode(ctx context.Context, db *gorm.DB, phone, ip string) (*dto.SendSmsResponse, error) {
	latest, err := s.accounts.FindLatestSmsCode(db, phone)
	if err != nil && !apperrors.Is(err, repositories.ErrSmsCodeNotFound) {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	if latest != nil && now.Sub(latest.SentAt) < smsResendInterval {
		return nil, apperrors.New(apperrors.CodeSmsRateLimited, "auth",
			"Code already sent, retry later", http.StatusTooManyRequests)
	}

	code := &models.SmsCode{
		Phone:     phone,
		Code:      mockSmsCode,
		SentAt:    now,
		IPAddress: ip,
	}
	if err := s.accounts.CreateSmsCode(db, code); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "sms code issued", "phone", phone)

	return &dto.SendSmsResponse{
		Phone:     phone,
		ExpiresAt: now.Add(smsCodeTTL),
	}, nil
}

// VerifySmsCode checks the latest code for the phone: it must match,
// be unused and be inside its TTL.
func (s *AuthServiceImpl) VerifySmsCode(db *gorm.DB, phone, code string) error {
	latest, err := s.accounts.FindLatestSmsCode(db, phone)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSmsCodeNotFound) {
			return apperrors.New(apperrors.CodeSmsCodeInvalid, "auth",
				"Invalid verification code", http.StatusBadRequest)
		}
		return apperrors.InternalError(err)
	}

	if latest.Code != code || latest.UsedAt != nil || s.now().Sub(latest.SentAt) > smsCodeTTL {
		return apperrors.New(apperrors.CodeSmsCodeInvalid, "auth",
			"Invalid verification code", http.StatusBadRequest)
	}

	return nil
}

// Login verifies the code, requires an existing account and issues a
// merchant token. The code is consumed on success.
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.VerifySmsCode(db, req.Phone, req.Code); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindAccountByPhone(db, req.Phone)
	if err != nil {
		if apperrors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.NewNotFoundError("auth", "Account not found, please register first")
		}
		return nil, apperrors.InternalError(err)
	}

	if latest, err := s.accounts.FindLatestSmsCode(db, req.Phone); err == nil {
		if err := s.accounts.MarkSmsCodeUsed(db, latest.ID, s.now()); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	expiresAt := s.now().Add(s.cfg.UserTokenTTL)
	token, err := auth.GenerateUserToken(s.cfg.JWTSecret, account.ID, account.Phone, s.cfg.UserTokenTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "merchant logged in", "user_id", account.ID)

	return &dto.LoginResponse{
		Token:     token,
		UserID:    account.ID,
		Phone:     account.Phone,
		ExpiresAt: expiresAt,
	}, nil
}

// AdminLogin checks the configured operator credentials.
func (s *AuthServiceImpl) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if req.Username != s.cfg.AdminUsername || !auth.CheckPasswordHash(req.Password, s.cfg.AdminPassHash) {
		logger.CtxWarn(ctx, "admin login rejected", "username", req.Username)
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "auth",
			"Invalid username or password", http.StatusUnauthorized)
	}

	expiresAt := s.now().Add(s.cfg.AdminTokenTTL)
	token, err := auth.GenerateAdminToken(s.cfg.JWTSecret, req.Username, s.cfg.AdminTokenTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminLoginResponse{
		Token:     token,
		Username:  req.Username,
		ExpiresAt: expiresAt,
	}, nil
}
