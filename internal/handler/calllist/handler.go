package calllist

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/handler"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/service/calllist"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	service *calllist.Service
}

func NewHandler(service *calllist.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.DELETE("/:id", h.Delete)
	r.POST("/:id/activate", h.Activate)
	r.GET("/:id/entries", h.ListEntries)
	r.POST("/:id/entries", h.AddEntry)
	r.DELETE("/:id/entries/:entryId", h.DeleteEntry)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateCallListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) List(c *gin.Context) {
	lists, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, lists)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err, "call list")
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "call list")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "call list deleted"})
}

func (h *Handler) Activate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req model.ActivateCallListRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	activated, err := h.service.Activate(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondServiceError(c, err, "call list")
		return
	}
	httputil.RespondWithSuccess(c, activated)
}

func (h *Handler) ListEntries(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.service.ListEntries(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entries)
}

func (h *Handler) AddEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req model.CreateCallListEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	entry, err := h.service.AddEntry(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondServiceError(c, err, "call list")
		return
	}
	httputil.RespondWithCreated(c, entry)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	id, ok := parseID(c, "entryId")
	if !ok {
		return
	}
	if err := h.service.DeleteEntry(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "call list entry")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "entry deleted"})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}
