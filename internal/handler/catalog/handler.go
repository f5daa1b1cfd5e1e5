package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/handler"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/service/catalog"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
	r.POST("/services", h.CreateService)
	r.PUT("/services/:id", h.UpdateService)
	r.DELETE("/services/:id", h.DeleteService)

	r.GET("/specialties", h.ListSpecialties)
	r.POST("/specialties", h.CreateSpecialty)
	r.DELETE("/specialties/:id", h.DeleteSpecialty)
}

func (h *Handler) ListServices(c *gin.Context) {
	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("aktif", "false"))
	services, err := h.service.ListServices(c.Request.Context(), onlyActive)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, services)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateClinicServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	created, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return
	}
	var svc model.ClinicService
	if err := c.ShouldBindJSON(&svc); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	svc.ID = id

	if err := h.service.UpdateService(c.Request.Context(), &svc); err != nil {
		handler.RespondServiceError(c, err, "service")
		return
	}
	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return
	}
	if err := h.service.DeleteService(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "service")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "service deleted"})
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.ListSpecialties(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, specialties)
}

func (h *Handler) CreateSpecialty(c *gin.Context) {
	var req model.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	created, err := h.service.CreateSpecialty(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) DeleteSpecialty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return
	}
	if err := h.service.DeleteSpecialty(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "specialty")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "specialty deleted"})
}
