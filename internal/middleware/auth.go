package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/klinikvoice/admin-api/internal/model"
	authsvc "github.com/klinikvoice/admin-api/internal/service/auth"
	"github.com/klinikvoice/admin-api/internal/service/session"
	"github.com/klinikvoice/admin-api/pkg/httputil"
)

// Context keys set by Authenticate.
const (
	ContextSession  = "session"
	ContextRole     = "role"
	ContextDoctorID = "doctor_id"
)

type AuthMiddleware struct {
	authService *authsvc.Service
	resolver    *session.Resolver
}

func NewAuthMiddleware(authService *authsvc.Service, resolver *session.Resolver) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		resolver:    resolver,
	}
}

// Authenticate validates the bearer token and resolves the session's role.
// A transient resolution failure answers 503 rather than 401: the caller's
// session is still valid, the backend just could not prove it.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortError(c, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		sess, err := m.authService.GetSession(c.Request.Context(), parts[1])
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		outcome, err := m.resolver.Resolve(c.Request.Context(), sess)
		if err != nil {
			abortError(c, http.StatusServiceUnavailable, "could not resolve session role")
			return
		}
		if outcome.Role == model.RoleNone {
			abortError(c, http.StatusUnauthorized, "session no longer valid")
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextRole, outcome.Role)
		if outcome.DoctorID != nil {
			c.Set(ContextDoctorID, *outcome.DoctorID)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return requireRole(model.RoleAdmin)
}

func (m *AuthMiddleware) RequireDoctor() gin.HandlerFunc {
	return requireRole(model.RoleDoctor)
}

func requireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if current, ok := c.Get(ContextRole); !ok || current.(model.Role) != role {
			abortError(c, http.StatusForbidden, "insufficient role")
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the session set by Authenticate.
func SessionFromContext(c *gin.Context) (*model.Session, bool) {
	value, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*model.Session)
	return sess, ok
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, httputil.Response{
		Success: false,
		Error:   &httputil.Error{Code: status, Message: message},
	})
}
