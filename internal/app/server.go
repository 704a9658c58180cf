// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"servicehub_backend/internal/category"
	"servicehub_backend/internal/common"
	"servicehub_backend/internal/config"
	"servicehub_backend/internal/firebase"
	"servicehub_backend/internal/jobs"
	"servicehub_backend/internal/middleware"
	platformmongo "servicehub_backend/internal/platform/mongo"
	"servicehub_backend/internal/proxy"
	"servicehub_backend/internal/shared"
	"servicehub_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler     *user.Handler
	categoryHandler *category.Handler
	proxyHandler    *proxy.Handler

	// Jobs
	storeHealthJob *jobs.StoreHealthJob

	// Document store lifecycle
	mongoProvider *platformmongo.Provider

	// Middleware instances
	authMW      gin.HandlerFunc
	adminRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	categoryHandler *category.Handler,
	proxyHandler *proxy.Handler,
	storeHealthJob *jobs.StoreHealthJob,
	mongoProvider *platformmongo.Provider,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin, cfg.LoginPath, cfg.RoleFallbackPath)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		payload := gin.H{"status": "UP", "message": "ServiceHub API is healthy!"}
		if snap := storeHealthJob.Snapshot(); !snap.CheckedAt.IsZero() {
			storeStatus := "connected"
			if snap.Err != nil {
				storeStatus = "error"
			}
			payload["document_store"] = gin.H{
				"status":     storeStatus,
				"checked_at": snap.CheckedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, payload)
	})

	v1 := router.Group("/api/v1")

	// Register routes for modules by passing the base v1 group and middlewares
	userHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	categoryHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	// The generic data proxy keeps its legacy mount point outside /api/v1.
	apiGroup := router.Group("/api")
	proxyHandler.RegisterRoutes(apiGroup, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		userHandler:     userHandler,
		categoryHandler: categoryHandler,
		proxyHandler:    proxyHandler,
		storeHealthJob:  storeHealthJob,
		mongoProvider:   mongoProvider,
		authMW:          authMW,
		adminRoleMW:     adminRoleMW,
	}, nil
}

func (s *Server) Start() error {
	if s.storeHealthJob != nil {
		err := s.storeHealthJob.SetupAndStart()
		if err != nil {
			s.logger.Error("Failed to setup and start store health job", zap.Error(err))
		}
	} else {
		s.logger.Info("Store health job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.storeHealthJob != nil {
		s.storeHealthJob.Stop()
	}
	if s.mongoProvider != nil {
		s.mongoProvider.Close(ctx)
	}
	return s.httpServer.Shutdown(ctx)
}
