package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/klinikvoice/admin-api/internal/middleware"
	"github.com/klinikvoice/admin-api/internal/model"
	authsvc "github.com/klinikvoice/admin-api/internal/service/auth"
	"github.com/klinikvoice/admin-api/internal/service/session"
	apperrors "github.com/klinikvoice/admin-api/pkg/errors"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

type Handler struct {
	authService *authsvc.Service
	resolver    *session.Resolver
}

func NewHandler(authService *authsvc.Service, resolver *session.Resolver) *Handler {
	return &Handler{authService: authService, resolver: resolver}
}

// RegisterPublicRoutes mounts the endpoints that need no session.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password", h.ResetPassword)
}

// RegisterRoutes mounts the endpoints behind authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/logout", h.Logout)
	r.GET("/session", h.Session)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	sess, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}
		httputil.RespondWithError(c, err)
		return
	}

	outcome, err := h.resolver.Resolve(c.Request.Context(), sess)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		Outcome:     outcome,
		Landing:     session.DefaultRoute(outcome.Role),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.authService.SignOut(c.Request.Context(), sess); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session reports the caller's resolved role and landing screen.
func (h *Handler) Session(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(errors.New("no session")))
		return
	}

	outcome, err := h.resolver.Resolve(c.Request.Context(), sess)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"outcome":    outcome,
		"landing":    session.DefaultRoute(outcome.Role),
		"expires_at": sess.ExpiresAt,
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Username); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "if the account exists, a reset email was sent"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid or expired reset token", err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "password updated"})
}
