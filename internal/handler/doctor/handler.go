package doctor

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/handler"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/service/doctor"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.GET("/:id/calendar", h.ListCalendar)
	r.POST("/:id/calendar", h.CreateSlot)
	r.PUT("/:id/calendar/:slotId", h.UpdateSlot)
	r.DELETE("/:id/calendar/:slotId", h.DeleteSlot)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
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
	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("aktif", "false"))
	doctors, err := h.service.List(c.Request.Context(), onlyActive)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err, "doctor")
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var doc model.Doctor
	if err := c.ShouldBindJSON(&doc); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	doc.ID = id

	if err := h.service.Update(c.Request.Context(), &doc); err != nil {
		handler.RespondServiceError(c, err, "doctor")
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "doctor")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "doctor deleted"})
}

func (h *Handler) ListCalendar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	slots, err := h.service.ListCalendar(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) CreateSlot(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var slot model.CalendarSlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	slot.DoctorID = &id

	if err := h.service.CreateSlot(c.Request.Context(), &slot); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, slot)
}

func (h *Handler) UpdateSlot(c *gin.Context) {
	id, ok := parseID(c, "slotId")
	if !ok {
		return
	}
	var slot model.CalendarSlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	slot.ID = id

	if err := h.service.UpdateSlot(c.Request.Context(), &slot); err != nil {
		handler.RespondServiceError(c, err, "calendar slot")
		return
	}
	httputil.RespondWithSuccess(c, slot)
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := parseID(c, "slotId")
	if !ok {
		return
	}
	if err := h.service.DeleteSlot(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "calendar slot")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "calendar slot deleted"})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}
