package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/anonto42/microblog/internal/auth"
	"github.com/anonto42/microblog/internal/handlers"
	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/metrics"
	"github.com/anonto42/microblog/internal/middleware"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/internal/search"
	"github.com/anonto42/microblog/internal/tasks"
	"github.com/anonto42/microblog/pkg/config"
	"github.com/anonto42/microblog/pkg/firebase"
	"github.com/anonto42/microblog/pkg/mail"
	"github.com/anonto42/microblog/validators"
)

// authRateLimit is the per-IP request rate allowed on /api/v1/auth.
const authRateLimit = 20

// Deps are the services the routes are wired to. Queue and Firebase may be nil.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Mailer   mail.Mailer
	Search   search.Index
	Queue    *tasks.Queue
	Firebase firebase.TokenVerifier
}

// New builds a fully configured Echo instance.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()

	SetupMiddleware(e)
	SetupRoutes(e, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			entry := logrus.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
				"ip":      v.RemoteIP,
			})
			if v.Error != nil {
				entry = entry.WithField("error", v.Error.Error())
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(metrics.Middleware())
	e.Use(i18n.Middleware())
	logrus.Debug("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	index := deps.Search
	if index == nil {
		index = search.NopIndex{}
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NopMailer{}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	postRepo := repositories.NewPostgresPostRepository(deps.DB)
	followRepo := repositories.NewPostgresFollowRepository(deps.DB)
	messageRepo := repositories.NewPostgresMessageRepository(deps.DB)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.DB)
	taskRepo := repositories.NewPostgresTaskRepository(deps.DB)

	tokens := auth.NewTokenManager(deps.Config.SecretKey)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authGroup.Use(eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(rate.Limit(authRateLimit))))
	authHandler := handlers.NewAuthHandler(userRepo, tokens, mailer, deps.Config.Sender(), deps.Firebase)
	authHandler.RegisterAuthRoutes(authGroup)
	logrus.WithField("firebase", deps.Firebase != nil).Debug("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(tokens))
	api.Use(middleware.LastSeenMiddleware(userRepo))

	handlers.NewFeedHandler(postRepo).RegisterFeedRoutes(api)
	handlers.NewPostHandler(postRepo, index).RegisterPostRoutes(api)
	handlers.NewUserHandler(userRepo, followRepo, postRepo).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(followRepo, userRepo, notificationRepo).RegisterFollowRoutes(api)
	handlers.NewMessageHandler(messageRepo, userRepo, notificationRepo).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(api)
	handlers.NewTaskHandler(deps.Queue, taskRepo).RegisterTaskRoutes(api)

	logrus.WithField("tasks", deps.Queue != nil).Debug("All routes configured.")
}
