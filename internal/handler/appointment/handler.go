package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/handler"
	"github.com/klinikvoice/admin-api/internal/middleware"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/service/appointment"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.POST("/:id/approve", h.Approve)
	r.POST("/:id/reject", h.Reject)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
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

// List supports doktor_id, durum, start_date and end_date query filters.
// Doctors only ever see their own schedule.
func (h *Handler) List(c *gin.Context) {
	filters := make(map[string]interface{})

	if doctorID, ok := c.Get(middleware.ContextDoctorID); ok {
		filters["doktor_id"] = doctorID.(uuid.UUID)
	} else if raw := c.Query("doktor_id"); raw != "" {
		doctorID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doktor_id", err))
			return
		}
		filters["doktor_id"] = doctorID
	}
	if status := c.Query("durum"); status != "" {
		filters["durum"] = status
	}
	if start := c.Query("start_date"); start != "" {
		filters["start_date"] = start
	}
	if end := c.Query("end_date"); end != "" {
		filters["end_date"] = end
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err, "appointment")
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondServiceError(c, err, "appointment")
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "appointment")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "appointment deleted"})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	approved, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err, "appointment")
		return
	}
	httputil.RespondWithSuccess(c, approved)
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.RejectAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("rejection reason is required", err))
		return
	}

	rejected, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		handler.RespondServiceError(c, err, "appointment")
		return
	}
	httputil.RespondWithSuccess(c, rejected)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}
