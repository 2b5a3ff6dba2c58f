// Package http provides the HTTP server that mounts every Capital Desk handler.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	casesHTTP "github.com/capitaldesk/desk/internal/cases/http"
	"github.com/capitaldesk/desk/internal/config"
	fleetHTTP "github.com/capitaldesk/desk/internal/fleet/http"
	"github.com/capitaldesk/desk/internal/metrics"
	notificationHTTP "github.com/capitaldesk/desk/internal/notification/http"
	shiftHTTP "github.com/capitaldesk/desk/internal/shift/http"
	stsHTTP "github.com/capitaldesk/desk/internal/sts/http"
	workOrderHTTP "github.com/capitaldesk/desk/internal/workorder/http"
)

// Handlers groups the domain handlers mounted by SetupRouter.
type Handlers struct {
	Session       *authHTTP.SessionHandler
	PasswordReset *authHTTP.PasswordResetHandler
	Users         *authHTTP.UserHandler
	Notifications *notificationHTTP.NotificationHandler
	Buses         *fleetHTTP.BusHandler
	Cases         *casesHTTP.CaseHandler
	WorkOrders    *workOrderHTTP.WorkOrderHandler
	Shifts        *shiftHTTP.ShiftHandler
	Sts           *stsHTTP.StsHandler
}

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine.
//
// Every request passes the authentication middleware and then the route gate, so
// handlers only ever see principals the route table admits. metricsProvider may be nil.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	sessionUseCase authUseCase.SessionUseCase,
	tokenService authService.TokenService,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.Use(authHTTP.AuthenticationMiddleware(sessionUseCase, tokenService, cfg.SessionCookieName, s.logger))
	router.Use(authHTTP.RequestGate(s.logger))
	if cfg.RateLimitEnabled {
		router.Use(authHTTP.ThrottleMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	router.GET("/", s.indexHandler)
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	root := &router.RouterGroup
	handlers.Session.RegisterRoutes(root)
	handlers.PasswordReset.RegisterRoutes(root)
	handlers.Users.RegisterRoutes(root, handlers.PasswordReset)
	handlers.Notifications.RegisterRoutes(root)
	handlers.Buses.RegisterRoutes(root)
	handlers.Cases.RegisterRoutes(root)
	handlers.WorkOrders.RegisterRoutes(root)
	handlers.Shifts.RegisterRoutes(root)
	handlers.Sts.RegisterRoutes(root)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// indexHandler answers the landing page. Signed-in callers also get their identity.
func (s *Server) indexHandler(c *gin.Context) {
	body := gin.H{"service": "capital-desk"}
	if principal, ok := authHTTP.GetPrincipal(c.Request.Context()); ok {
		body["user_id"] = principal.UserID.String()
		body["role"] = string(principal.Role)
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
