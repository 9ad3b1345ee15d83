package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zhenglaizhang/batter-store-api/internal/logger"
	"github.com/zhenglaizhang/batter-store-api/internal/models"
	"github.com/zhenglaizhang/batter-store-api/internal/repositories"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/internal/storage"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const pickupDateLayout = "2006-01-02"

type OrderService interface {
	CreateWeightOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateWeightOrderRequest) (*dto.OrderView, error)
	GetOrder(db *gorm.DB, orderID string) (*dto.OrderView, error)
	ListOrders(db *gorm.DB, query *dto.OrderListQuery, page, pageSize int) (*dto.OrderListResponse, error)
	UpdateOrder(ctx context.Context, db *gorm.DB, orderID string, req *dto.UpdateOrderRequest) (*dto.OrderView, error)
	DeleteOrder(ctx context.Context, db *gorm.DB, orderID string) error
}

type OrderServiceImpl struct {
	orders  repositories.OrderRepository
	regRepo repositories.RegistrationRepository
	ingest  IngestService
}

func NewOrderService(orders repositories.OrderRepository, regRepo repositories.RegistrationRepository, ingest IngestService) *OrderServiceImpl {
	return &OrderServiceImpl{
		orders:  orders,
		regRepo: regRepo,
		ingest:  ingest,
	}
}

// CreateWeightOrder records a weight-based pickup order with its
// battery line items.
func (s *OrderServiceImpl) CreateWeightOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateWeightOrderRequest) (*dto.OrderView, error) {
	batteries, err := json.Marshal(req.Batteries)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid battery items")
	}

	order := &models.BatteryOrder{
		ID:          orderID(),
		UserID:      userID,
		Status:      "pending",
		OrderType:   models.OrderTypeWeightBased,
		Batteries:   datatypes.JSON(batteries),
		TotalPrice:  formatDecimal(req.TotalPrice),
		TotalWeight: formatDecimal(req.TotalWeight),
	}

	if req.PickupDate != "" {
		pickup, err := time.Parse(pickupDateLayout, req.PickupDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid pickup_date, expected YYYY-MM-DD")
		}
		order.PickupDate = &pickup
	}

	if reg, err := s.regRepo.FindRegistrationByUserID(db, userID); err == nil {
		order.StoreName = reg.StoreName
		order.ContactName = reg.ContactName
		order.ContactPhone = reg.ContactPhone
		order.Address = reg.Address
	}

	if err := s.orders.CreateOrder(db, order); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	logger.CtxInfo(ctx, "weight order created", "order_id", order.ID, "user_id", userID)

	view := s.buildView(order)
	return &view, nil
}

func (s *OrderServiceImpl) GetOrder(db *gorm.DB, orderID string) (*dto.OrderView, error) {
	order, err := s.orders.FindOrderByID(db, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("orders", "Order not found")
		}
		return nil, apperrors.InternalError(err)
	}

	view := s.buildView(order)
	return &view, nil
}

func (s *OrderServiceImpl) ListOrders(db *gorm.DB, query *dto.OrderListQuery, page, pageSize int) (*dto.OrderListResponse, error) {
	offset := (page - 1) * pageSize
	orders, total, err := s.orders.ListOrders(db, query.UserID, query.Status, offset, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.OrderView, len(orders))
	for i := range orders {
		views[i] = s.buildView(&orders[i])
	}

	return &dto.OrderListResponse{
		Orders: views,
		Total:  total,
		Page:   page,
		Size:   pageSize,
	}, nil
}

// UpdateOrder applies a partial edit. Evidence references in PhotoRefs
// are appended verbatim; classification only affects URL resolution.
func (s *OrderServiceImpl) UpdateOrder(ctx context.Context, db *gorm.DB, orderID string, req *dto.UpdateOrderRequest) (*dto.OrderView, error) {
	order, err := s.orders.FindOrderByID(db, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("orders", "Order not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.PickupDate != nil {
		pickup, err := time.Parse(pickupDateLayout, *req.PickupDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid pickup_date, expected YYYY-MM-DD")
		}
		order.PickupDate = &pickup
	}
	if req.Batteries != nil {
		batteries, err := json.Marshal(req.Batteries)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid battery items")
		}
		order.Batteries = datatypes.JSON(batteries)
	}
	if req.TotalPrice != nil {
		order.TotalPrice = formatDecimal(*req.TotalPrice)
	}
	if req.TotalWeight != nil {
		order.TotalWeight = formatDecimal(*req.TotalWeight)
	}

	var newPhotos []models.OrderPhoto
	for _, ref := range req.PhotoRefs {
		// References attach verbatim; unrecognized shapes keep the
		// record but resolve to no URL.
		if kind, _ := storage.ResolveRef(ref.Ref); kind == storage.RefUnrecognized {
			logger.CtxWarn(ctx, "unrecognized photo reference attached verbatim", "ref", ref.Ref)
		}
		filename := ref.Filename
		if filename == "" {
			filename = filepath.Base(ref.Ref)
		}
		newPhotos = append(newPhotos, models.OrderPhoto{
			ID:               photoID(),
			OrderID:          order.ID,
			UserID:           order.UserID,
			Filename:         filepath.Base(ref.Ref),
			OriginalFilename: filename,
			FilePath:         ref.Ref,
			MimeType:         storage.MimeTypeFor(ref.Ref),
			UploadIndex:      ref.UploadIndex,
		})
	}
	order.TotalPhotos += len(newPhotos)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.UpdateOrder(tx, order); err != nil {
			return err
		}
		return s.orders.CreatePhotos(tx, newPhotos)
	})
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	logger.CtxInfo(ctx, "order updated", "order_id", order.ID, "photos_added", len(newPhotos))

	updated, err := s.orders.FindOrderByID(db, orderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	view := s.buildView(updated)
	return &view, nil
}

func (s *OrderServiceImpl) DeleteOrder(ctx context.Context, db *gorm.DB, orderID string) error {
	if err := s.orders.DeleteOrder(db, orderID); err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.NewNotFoundError("orders", "Order not found")
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "order deleted", "order_id", orderID)
	return nil
}

// buildView resolves each photo reference to a download URL.
func (s *OrderServiceImpl) buildView(order *models.BatteryOrder) dto.OrderView {
	views := make([]dto.PhotoView, len(order.Photos))
	for i, p := range order.Photos {
		views[i] = dto.PhotoView{
			PhotoID:          p.ID,
			Filename:         p.Filename,
			OriginalFilename: p.OriginalFilename,
			FilePath:         p.FilePath,
			FileSize:         p.FileSize,
			MimeType:         p.MimeType,
			UploadIndex:      p.UploadIndex,
			URL:              s.ingest.ResolveURL(p.FilePath),
			CreatedAt:        p.CreatedAt,
		}
	}

	return dto.OrderView{
		BatteryOrder: *order,
		PhotoViews:   views,
	}
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
