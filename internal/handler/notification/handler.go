package notification

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/klinikvoice/admin-api/internal/middleware"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/service/notification"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	manager *notification.Manager
}

func NewHandler(manager *notification.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Counts)
	r.POST("/clear", h.Clear)
}

// tracker returns the caller's tracker, attaching one if the session signed
// in before this process started.
func (h *Handler) tracker(c *gin.Context) (*notification.Tracker, bool) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(errors.New("no session")))
		return nil, false
	}
	if tracker, ok := h.manager.Get(sess.IdentityID); ok {
		return tracker, true
	}
	return h.manager.Attach(sess.IdentityID), true
}

// Counts reports the per-category unseen call counts for the caller.
func (h *Handler) Counts(c *gin.Context) {
	tracker, ok := h.tracker(c)
	if !ok {
		return
	}

	counts := tracker.Counts()
	httputil.RespondWithSuccess(c, gin.H{
		"kategoriler": counts,
		"toplam":      counts.Total(),
	})
}

type clearRequest struct {
	Category *model.CallCategory `json:"kategori" binding:"omitempty,call_category"`
}

// Clear acknowledges one category, or all of them when none is named. The
// aggregate screen shows every category at once, so visiting it clears
// everything.
func (h *Handler) Clear(c *gin.Context) {
	tracker, ok := h.tracker(c)
	if !ok {
		return
	}

	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	if req.Category != nil {
		if err := tracker.Clear(c.Request.Context(), *req.Category); err != nil {
			httputil.RespondWithError(c, err)
			return
		}
	} else if err := tracker.ClearAll(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	counts := tracker.Counts()
	httputil.RespondWithSuccess(c, gin.H{
		"kategoriler": counts,
		"toplam":      counts.Total(),
	})
}
