package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/klinikvoice/admin-api/internal/handler"
	authhandler "github.com/klinikvoice/admin-api/internal/handler/auth"
	"github.com/klinikvoice/admin-api/internal/middleware"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers collects everything the router mounts.
type Handlers struct {
	Ops          *handler.Handler
	Auth         *authhandler.Handler
	Notification Handler
	Appointment  Handler
	CallRecord   Handler
	CallList     Handler
	Dashboard    Handler
	Doctor       Handler
	Lead         Handler
	Catalog      Handler
	User         Handler
}

type Config struct {
	RatePerSecond float64
	RateBurst     int
	CORS          middleware.CORSConfig
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, cfg Config, log *logger.Logger) *Router {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("call_category", model.ValidCallCategory)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.CORS(cfg.CORS),
		middleware.NewRateLimiter(cfg.RatePerSecond, cfg.RateBurst).RateLimit(),
	)

	return &Router{engine: engine, auth: auth, handlers: handlers}
}

func (r *Router) Setup() *gin.Engine {
	r.engine.GET("/health/live", r.handlers.Ops.LivenessCheck)
	r.engine.GET("/health/ready", r.handlers.Ops.ReadinessCheck)
	r.engine.GET("/metrics", r.handlers.Ops.MetricsHandler)

	api := r.engine.Group("/api/v1")

	r.handlers.Auth.RegisterPublicRoutes(api.Group("/auth"))

	// Everything below requires a session with a resolved role.
	authed := api.Group("", r.auth.Authenticate())
	r.handlers.Auth.RegisterRoutes(authed.Group("/auth"))
	r.handlers.Notification.RegisterRoutes(authed.Group("/notifications"))
	r.handlers.Appointment.RegisterRoutes(authed.Group("/appointments"))

	// Management screens are admin only.
	admin := authed.Group("", r.auth.RequireAdmin())
	r.handlers.CallRecord.RegisterRoutes(admin.Group("/call-records"))
	r.handlers.CallList.RegisterRoutes(admin.Group("/call-lists"))
	r.handlers.Dashboard.RegisterRoutes(admin.Group("/dashboard"))
	r.handlers.Doctor.RegisterRoutes(admin.Group("/doctors"))
	r.handlers.Lead.RegisterRoutes(admin.Group("/leads"))
	r.handlers.Catalog.RegisterRoutes(admin.Group("/catalog"))
	r.handlers.User.RegisterRoutes(admin.Group("/users"))

	return r.engine
}
