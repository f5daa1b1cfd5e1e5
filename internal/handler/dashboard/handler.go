package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/klinikvoice/admin-api/internal/service/callrecord"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	service *callrecord.Service
}

func NewHandler(service *callrecord.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.Stats)
}

// Stats backs the admin landing screen counters.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
