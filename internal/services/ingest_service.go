package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/logger"
	"github.com/zhenglaizhang/batter-store-api/internal/models"
	"github.com/zhenglaizhang/batter-store-api/internal/repositories"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/internal/storage"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadLimits are the per-file size ceilings. Photos and documents
// have deliberately separate limits.
type UploadLimits struct {
	MaxPhotoSize    int64
	MaxDocumentSize int64
}

func DefaultUploadLimits() UploadLimits {
	return UploadLimits{
		MaxPhotoSize:    10 * 1024 * 1024,
		MaxDocumentSize: 5 * 1024 * 1024,
	}
}

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedLicenseExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// IngestService runs the evidence intake pipeline: validate each item,
// store to the remote object store with a local fallback, commit the
// order and its records in one transaction, then resolve URLs.
type IngestService interface {
	IngestPhotos(ctx context.Context, db *gorm.DB, req *dto.IntakeRequest) (*dto.IntakeResult, error)
	UploadBusinessLicense(ctx context.Context, db *gorm.DB, req *dto.LicenseUploadRequest) (*dto.LicenseUploadResponse, error)

	// ResolveURL maps a stored reference to a download URL. Empty when
	// the reference is unrecognized or signing fails.
	ResolveURL(ref string) string
}

type IngestServiceImpl struct {
	remote  storage.Remote // nil when the remote store is disabled
	local   storage.Local
	orders  repositories.OrderRepository
	regRepo repositories.RegistrationRepository
	limits  UploadLimits
}

func NewIngestService(remote storage.Remote, local storage.Local, orders repositories.OrderRepository, regRepo repositories.RegistrationRepository, limits UploadLimits) IngestService {
	return &IngestServiceImpl{
		remote:  remote,
		local:   local,
		orders:  orders,
		regRepo: regRepo,
		limits:  limits,
	}
}

// pendingItem pairs a validated, stored item with its outcome slot.
type pendingItem struct {
	record     models.OrderPhoto
	outcomeIdx int
}

func (s *IngestServiceImpl) IngestPhotos(ctx context.Context, db *gorm.DB, req *dto.IntakeRequest) (*dto.IntakeResult, error) {
	outcomes := make([]dto.ItemOutcome, len(req.Items))
	var pending []pendingItem

	for i, item := range req.Items {
		outcomes[i] = dto.ItemOutcome{
			UploadIndex:      item.UploadIndex,
			OriginalFilename: item.Filename,
		}

		if item.Ref != "" {
			// Pre-stored reference: attach verbatim, no re-validation
			// of the underlying object. Unrecognized shapes persist
			// too; they resolve to no URL later.
			if kind, _ := storage.ResolveRef(item.Ref); kind == storage.RefUnrecognized {
				logger.CtxWarn(ctx, "unrecognized photo reference attached verbatim", "ref", item.Ref)
			}
			outcomes[i].Status = dto.ItemStored
			outcomes[i].Location = "reference"
			outcomes[i].Reference = item.Ref
			pending = append(pending, pendingItem{
				record: models.OrderPhoto{
					ID:               photoID(),
					UserID:           req.UserID,
					Filename:         filepath.Base(item.Ref),
					OriginalFilename: item.Filename,
					FilePath:         item.Ref,
					MimeType:         storage.MimeTypeFor(item.Ref),
					UploadIndex:      item.UploadIndex,
				},
				outcomeIdx: i,
			})
			continue
		}

		if reason := s.validatePhoto(item); reason != "" {
			outcomes[i].Status = dto.ItemRejected
			outcomes[i].Reason = reason
			continue
		}

		ext := strings.ToLower(filepath.Ext(item.Filename))
		storedName := uuid.NewString() + ext

		ref, location := s.storeObject(ctx, req, storedName, item.Data)
		if ref == "" {
			outcomes[i].Status = dto.ItemRejected
			outcomes[i].Reason = "storage unavailable"
			continue
		}

		outcomes[i].Status = dto.ItemStored
		outcomes[i].Location = location
		outcomes[i].Reference = ref
		pending = append(pending, pendingItem{
			record: models.OrderPhoto{
				ID:               photoID(),
				UserID:           req.UserID,
				Filename:         storedName,
				OriginalFilename: item.Filename,
				FilePath:         ref,
				FileSize:         int64(len(item.Data)),
				MimeType:         storage.MimeTypeFor(item.Filename),
				UploadIndex:      item.UploadIndex,
			},
			outcomeIdx: i,
		})
	}

	if len(pending) == 0 {
		return nil, apperrors.NewNoValidItemsError()
	}

	order := s.buildOrder(db, req.UserID, len(pending))

	// Header and evidence records commit together or not at all.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.CreateOrder(tx, order); err != nil {
			return err
		}
		records := make([]models.OrderPhoto, len(pending))
		for i := range pending {
			pending[i].record.OrderID = order.ID
			records[i] = pending[i].record
		}
		return s.orders.CreatePhotos(tx, records)
	})
	if err != nil {
		logger.CtxWithError(ctx, "order commit failed, batch rolled back", err, "order_id", order.ID)
		return nil, apperrors.NewPersistenceFailure(err)
	}

	for _, p := range pending {
		outcomes[p.outcomeIdx].URL = s.ResolveURL(p.record.FilePath)
	}

	logger.CtxInfo(ctx, "evidence batch committed",
		"order_id", order.ID,
		"stored", len(pending),
		"rejected", len(req.Items)-len(pending),
	)

	return &dto.IntakeResult{
		OrderID:     order.ID,
		TotalStored: len(pending),
		Outcomes:    outcomes,
	}, nil
}

// validatePhoto returns a rejection reason or "".
func (s *IngestServiceImpl) validatePhoto(item dto.IntakeItem) string {
	ext := strings.ToLower(filepath.Ext(item.Filename))
	if !allowedPhotoExts[ext] {
		return fmt.Sprintf("unsupported file type %q", ext)
	}
	if int64(len(item.Data)) > s.limits.MaxPhotoSize {
		return fmt.Sprintf("file exceeds %d bytes", s.limits.MaxPhotoSize)
	}
	if len(item.Data) == 0 {
		return "empty file"
	}
	return ""
}

// storeObject tries remote first, then the local fallback. Returns the
// persisted reference and its location, or "" when both stores failed.
func (s *IngestServiceImpl) storeObject(ctx context.Context, req *dto.IntakeRequest, storedName string, data []byte) (string, string) {
	if s.remote != nil {
		key, err := s.remote.Put(ctx, req.UserID, storedName, data, req.OpenID)
		if err == nil {
			return key, "remote"
		}
		logger.CtxWarn(ctx, "remote store failed, falling back to local",
			"error", err.Error(),
			"filename", storedName,
		)
	}

	path, err := s.local.SavePhoto(req.UserID, storedName, data)
	if err != nil {
		logger.CtxWithError(ctx, "local fallback failed", err, "filename", storedName)
		return "", ""
	}
	return path, "local"
}

// buildOrder snapshots the merchant's registration into a new order
// header. A missing registration leaves the snapshot fields empty.
func (s *IngestServiceImpl) buildOrder(db *gorm.DB, userID string, totalPhotos int) *models.BatteryOrder {
	order := &models.BatteryOrder{
		ID:          orderID(),
		UserID:      userID,
		Status:      "pending",
		OrderType:   models.OrderTypePhotoUpload,
		TotalPhotos: totalPhotos,
	}

	if reg, err := s.regRepo.FindRegistrationByUserID(db, userID); err == nil {
		order.StoreName = reg.StoreName
		order.ContactName = reg.ContactName
		order.ContactPhone = reg.ContactPhone
		order.Address = reg.Address
	}

	return order
}

func (s *IngestServiceImpl) UploadBusinessLicense(ctx context.Context, db *gorm.DB, req *dto.LicenseUploadRequest) (*dto.LicenseUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !allowedLicenseExts[ext] {
		return nil, apperrors.New(apperrors.CodeUnsupportedType, "intake",
			fmt.Sprintf("unsupported license file type %q", ext), 400)
	}
	if int64(len(req.Data)) > s.limits.MaxDocumentSize {
		return nil, apperrors.New(apperrors.CodeFileTooLarge, "intake",
			fmt.Sprintf("license exceeds %d bytes", s.limits.MaxDocumentSize), 400)
	}
	if len(req.Data) == 0 {
		return nil, apperrors.NewBadRequestError("empty file")
	}

	reg, err := s.regRepo.FindRegistrationByUserID(db, req.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.NewNotFoundError("registration", "No registration for this user")
		}
		return nil, apperrors.InternalError(err)
	}

	storedName := "business_license_" + uuid.NewString() + ext
	path, err := s.local.SaveLicense(req.UserID, storedName, req.Data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "intake",
			"Failed to store business license", 500)
	}

	if err := s.regRepo.UpdateLicensePath(db, reg.RegistrationID, path); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	logger.CtxInfo(ctx, "business license stored", "registration_id", reg.RegistrationID)

	return &dto.LicenseUploadResponse{
		RegistrationID: reg.RegistrationID,
		Path:           path,
		URL:            s.local.URLFor(path),
	}, nil
}

func (s *IngestServiceImpl) ResolveURL(ref string) string {
	kind, key := storage.ResolveRef(ref)
	switch kind {
	case storage.RefRemote:
		if s.remote == nil {
			return ""
		}
		url, err := s.remote.PresignedURL(key, 0)
		if err != nil {
			return ""
		}
		return url
	case storage.RefLocal:
		return s.local.URLFor(ref)
	default:
		return ""
	}
}

func orderID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func photoID() string {
	return "photo_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// nowPtr is shared by services stamping optional times.
func nowPtr() *time.Time {
	t := time.Now()
	return &t
}
