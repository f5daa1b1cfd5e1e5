package callrecord

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/handler"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/service/callrecord"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	service *callrecord.Service
}

func NewHandler(service *callrecord.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/:id", h.Get)
}

func (h *Handler) List(c *gin.Context) {
	category := model.CallCategory(c.Query("kategori"))
	if !category.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("kategori must be gelen, form or liste", nil))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid limit", err))
			return
		}
		limit = parsed
	}

	records, err := h.service.List(c.Request.Context(), category, limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return
	}

	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err, "call record")
		return
	}
	httputil.RespondWithSuccess(c, record)
}
