package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "nightlife/api/swagger" // swagger docs
	"nightlife/internal/config"
	"nightlife/internal/database"
	"nightlife/internal/handler"
	"nightlife/internal/logging"
	"nightlife/internal/metrics"
	"nightlife/internal/middleware"
	"nightlife/internal/repository"
	"nightlife/internal/service"
	"nightlife/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

// @title           Nightlife Moderation API
// @version         1.0
// @description     Claims, update requests and proposals for venues and events, and the admin workflow that decides them.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.GinMode)
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("Database connection failed")
	}
	logger.Info("Connected to PostgreSQL successfully.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	moderationMetrics := metrics.New(registry)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger.WithField("component", "ws"))

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	claimRepo := repository.NewClaimRepository(db)
	updateRepo := repository.NewUpdateRequestRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	entityStore := repository.NewEntityStore(db)
	logRepo := repository.NewVerificationLogRepository(db)

	submissionService := service.NewSubmissionService(service.SubmissionDeps{
		TxManager: txManager,
		Claims:    claimRepo,
		Updates:   updateRepo,
		Proposals: proposalRepo,
		Entities:  entityStore,
		Logs:      logRepo,
		Publisher: wsHub,
		Metrics:   moderationMetrics,
		Logger:    logger.WithField("component", "submission"),
	})
	moderationService := service.NewModerationService(service.ModerationDeps{
		TxManager: txManager,
		Claims:    claimRepo,
		Updates:   updateRepo,
		Proposals: proposalRepo,
		Entities:  entityStore,
		Logs:      logRepo,
		Publisher: wsHub,
		Metrics:   moderationMetrics,
		Logger:    logger.WithField("component", "moderation"),
		Retry: service.RetryPolicy{
			MaxRetries:      cfg.Decision.MaxRetries,
			InitialInterval: cfg.Decision.InitialInterval,
			MaxInterval:     cfg.Decision.MaxInterval,
		},
	})
	logService := service.NewVerificationLogService(logRepo)

	auth := middleware.NewAuthenticator([]byte(cfg.JWTSecret))

	// Initialize Handlers
	submissionHandler := handler.NewSubmissionHandler(submissionService, auth)
	moderationHandler := handler.NewModerationHandler(moderationService, auth)
	logHandler := handler.NewVerificationLogHandler(logService, auth)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, auth, c)
	})

	// API Routing
	submissionHandler.RegisterRoutes(router.Group(""))
	moderationHandler.RegisterRoutes(router.Group(""))
	logHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wsHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
