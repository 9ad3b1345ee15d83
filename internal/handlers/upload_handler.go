package handlers

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/zhenglaizhang/batter-store-api/internal/services"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/internal/storage"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	photoFieldPrefix = "photos_"
	refFieldPrefix   = "photo_refs_"
	openIDHeader     = "X-WX-OPENID"
)

type UploadHandler struct {
	*BaseHandler
	ingestService services.IngestService
	regService    services.RegistrationService
	local         storage.Local
}

func NewUploadHandler(base *BaseHandler, ingestService services.IngestService, regService services.RegistrationService, local storage.Local) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		ingestService: ingestService,
		regService:    regService,
		local:         local,
	}
}

// UploadPhotos ingests a multipart evidence batch into a new order.
// Files arrive as photos_<n> fields; pre-stored references as
// photo_refs_<n> values. The numeric suffix is the client's upload
// index and is kept verbatim.
func (h *UploadHandler) UploadPhotos(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if _, err := h.regService.RequireApproved(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := c.Request.ParseMultipartForm(50 << 20); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}

	items, err := collectIntakeItems(c)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}
	if len(items) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no photos provided"))
		return
	}

	req := &dto.IntakeRequest{
		UserID: userID,
		OpenID: c.GetHeader(openIDHeader),
		Items:  items,
	}

	result, err := h.ingestService.IngestPhotos(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// collectIntakeItems gathers file and reference fields, ordered by
// their upload index.
func collectIntakeItems(c *gin.Context) ([]dto.IntakeItem, error) {
	var items []dto.IntakeItem

	form := c.Request.MultipartForm
	if form == nil {
		return nil, nil
	}

	for field, headers := range form.File {
		if !strings.HasPrefix(field, photoFieldPrefix) || len(headers) == 0 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(field, photoFieldPrefix))
		if err != nil {
			continue
		}

		header := headers[0]
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		items = append(items, dto.IntakeItem{
			Filename:    header.Filename,
			Data:        data,
			UploadIndex: idx,
		})
	}

	for field, values := range form.Value {
		if !strings.HasPrefix(field, refFieldPrefix) || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(field, refFieldPrefix))
		if err != nil {
			continue
		}

		items = append(items, dto.IntakeItem{
			Ref:         values[0],
			UploadIndex: idx,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].UploadIndex < items[j].UploadIndex
	})

	return items, nil
}

// ListLocalPhotos lists files under the local fallback root.
func (h *UploadHandler) ListLocalPhotos(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	files, err := h.local.List()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"count": len(files),
	})
}

// UploadBusinessLicense stores the caller's license document.
func (h *UploadHandler) UploadBusinessLicense(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to read file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to read file"))
		return
	}

	resp, err := h.ingestService.UploadBusinessLicense(c.Request.Context(), h.GetDB(c), &dto.LicenseUploadRequest{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
