package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/handler"
	"github.com/klinikvoice/admin-api/internal/model"
	authsvc "github.com/klinikvoice/admin-api/internal/service/auth"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

// Handler manages doctor login credentials from the user management screen.
type Handler struct {
	authService *authsvc.Service
}

func NewHandler(authService *authsvc.Service) *Handler {
	return &Handler{authService: authService}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.POST("", h.Create)
	r.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	logins, err := h.authService.ListLogins(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	// Password hashes never leave the server.
	type loginView struct {
		ID       uuid.UUID `json:"id"`
		DoctorID uuid.UUID `json:"doktor_id"`
		Username string    `json:"kullanici_adi"`
	}
	views := make([]loginView, 0, len(logins))
	for _, login := range logins {
		views = append(views, loginView{ID: login.ID, DoctorID: login.DoctorID, Username: login.Username})
	}
	httputil.RespondWithSuccess(c, views)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	login, err := h.authService.CreateLogin(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, gin.H{
		"id":            login.ID,
		"doktor_id":     login.DoctorID,
		"kullanici_adi": login.Username,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid id", err))
		return
	}
	if err := h.authService.DeleteLogin(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err, "doctor login")
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "doctor login deleted"})
}
