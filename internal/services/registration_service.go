package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/zhenglaizhang/batter-store-api/internal/logger"
	"github.com/zhenglaizhang/batter-store-api/internal/models"
	"github.com/zhenglaizhang/batter-store-api/internal/repositories"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	GetProfile(db *gorm.DB, userID string) (*models.MerchantRegistration, error)
	ListRegistrations(db *gorm.DB, status string, page, pageSize int) ([]models.MerchantRegistration, int64, error)
	Review(ctx context.Context, db *gorm.DB, registrationID string, req *dto.ReviewRegistrationRequest) (*models.MerchantRegistration, error)
	ListBusinessTypes(db *gorm.DB) ([]models.BusinessType, error)
	ListRoles(db *gorm.DB) ([]models.MerchantRole, error)

	// RequireApproved gates merchant-only operations on an approved
	// registration.
	RequireApproved(db *gorm.DB, userID string) (*models.MerchantRegistration, error)
}

type RegistrationServiceImpl struct {
	regRepo  repositories.RegistrationRepository
	accounts repositories.AccountRepository
	authSvc  AuthService
}

func NewRegistrationService(regRepo repositories.RegistrationRepository, accounts repositories.AccountRepository, authSvc AuthService) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		regRepo:  regRepo,
		accounts: accounts,
		authSvc:  authSvc,
	}
}

// Register verifies the SMS code, resolves the lookups and creates the
// account plus its pending registration in one transaction.
func (s *RegistrationServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := s.authSvc.VerifySmsCode(db, req.Phone, req.SmsCode); err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindAccountByPhone(db, req.Phone); err == nil {
		return nil, apperrors.New(apperrors.CodeAlreadyExists, "registration",
			"This phone is already registered", http.StatusConflict)
	} else if !apperrors.Is(err, repositories.ErrAccountNotFound) {
		return nil, apperrors.InternalError(err)
	}

	businessType, err := s.regRepo.FindBusinessType(db, req.BusinessTypeID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBusinessTypeNotFound) {
			return nil, apperrors.NewBadRequestError("Unknown business type")
		}
		return nil, apperrors.InternalError(err)
	}

	role, err := s.regRepo.FindRole(db, req.RoleID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRoleNotFound) {
			return nil, apperrors.NewBadRequestError("Unknown merchant role")
		}
		return nil, apperrors.InternalError(err)
	}

	userID := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	registrationID := "reg_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	err = db.Transaction(func(tx *gorm.DB) error {
		account := &models.Account{Phone: req.Phone}
		account.ID = userID
		if err := s.accounts.CreateAccount(tx, account); err != nil {
			return err
		}

		reg := &models.MerchantRegistration{
			RegistrationID:   registrationID,
			UserID:           userID,
			BusinessTypeID:   businessType.ID,
			BusinessTypeName: businessType.Name,
			RoleID:           role.ID,
			RoleName:         role.Name,
			StoreName:        req.StoreName,
			ContactName:      req.ContactName,
			ContactPhone:     req.Phone,
			Address:          req.Address,
			Status:           models.RegistrationStatusPending,
			SubmitTime:       *nowPtr(),
		}
		if err := s.regRepo.CreateRegistration(tx, reg); err != nil {
			return err
		}

		if latest, err := s.accounts.FindLatestSmsCode(tx, req.Phone); err == nil {
			return s.accounts.MarkSmsCodeUsed(tx, latest.ID, *nowPtr())
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	logger.CtxInfo(ctx, "merchant registered",
		"user_id", userID,
		"registration_id", registrationID,
	)

	return &dto.RegisterResponse{
		UserID:         userID,
		RegistrationID: registrationID,
		Status:         string(models.RegistrationStatusPending),
	}, nil
}

func (s *RegistrationServiceImpl) GetProfile(db *gorm.DB, userID string) (*models.MerchantRegistration, error) {
	reg, err := s.regRepo.FindRegistrationByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.NewNotFoundError("registration", "No registration for this user")
		}
		return nil, apperrors.InternalError(err)
	}
	return reg, nil
}

func (s *RegistrationServiceImpl) ListRegistrations(db *gorm.DB, status string, page, pageSize int) ([]models.MerchantRegistration, int64, error) {
	offset := (page - 1) * pageSize
	regs, total, err := s.regRepo.ListRegistrations(db, status, offset, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return regs, total, nil
}

// Review sets the registration status with an optional comment.
func (s *RegistrationServiceImpl) Review(ctx context.Context, db *gorm.DB, registrationID string, req *dto.ReviewRegistrationRequest) (*models.MerchantRegistration, error) {
	status := models.RegistrationStatus(req.Status)

	err := s.regRepo.UpdateRegistrationStatus(db, registrationID, status, req.Comment, *nowPtr())
	if err != nil {
		if apperrors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.NewNotFoundError("registration", "Registration not found")
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "registration reviewed",
		"registration_id", registrationID,
		"status", req.Status,
	)

	reg, err := s.regRepo.FindRegistrationByID(db, registrationID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return reg, nil
}

func (s *RegistrationServiceImpl) ListBusinessTypes(db *gorm.DB) ([]models.BusinessType, error) {
	types, err := s.regRepo.ListBusinessTypes(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return types, nil
}

func (s *RegistrationServiceImpl) ListRoles(db *gorm.DB) ([]models.MerchantRole, error) {
	roles, err := s.regRepo.ListRoles(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return roles, nil
}

func (s *RegistrationServiceImpl) RequireApproved(db *gorm.DB, userID string) (*models.MerchantRegistration, error) {
	reg, err := s.regRepo.FindRegistrationByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.New(apperrors.CodeRegistrationNotApproved, "registration",
				"Registration required before placing orders", http.StatusForbidden)
		}
		return nil, apperrors.InternalError(err)
	}

	if reg.Status != models.RegistrationStatusApproved {
		return nil, apperrors.New(apperrors.CodeRegistrationNotApproved, "registration",
			"Registration is not approved yet", http.StatusForbidden)
	}

	return reg, nil
}
