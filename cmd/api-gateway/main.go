package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/roomy-lb/roomy-api/api/swagger"
	"github.com/roomy-lb/roomy-api/internal/handler"
	"github.com/roomy-lb/roomy-api/internal/middleware"
	"github.com/roomy-lb/roomy-api/internal/models"
	"github.com/roomy-lb/roomy-api/internal/repository"
	"github.com/roomy-lb/roomy-api/internal/service"
	"github.com/roomy-lb/roomy-api/pkg/cache"
	"github.com/roomy-lb/roomy-api/pkg/config"
	"github.com/roomy-lb/roomy-api/pkg/database"
	"github.com/roomy-lb/roomy-api/pkg/logger"
	corsmiddleware "github.com/roomy-lb/roomy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/roomy-lb/roomy-api/pkg/middleware/requestid"
	"github.com/roomy-lb/roomy-api/pkg/storage"
)

// @title Roomy API
// @version 1.0.0
// @description Student housing marketplace for Lebanon: roommate matching and bed-level reservations
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	receiptStore, err := storage.NewLocalStorage(cfg.Receipts.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare receipt storage", "error", err)
	}
	receiptSigner := storage.NewSignedURLSigner(cfg.Receipts.SignedURLSecret, cfg.Receipts.SignedURLTTL)

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	apartmentRepo := repository.NewApartmentRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Matching.CacheTTL, logr, true)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	matchSvc := service.NewMatchService(service.MatchServiceParams{
		Profiles:  profileRepo,
		Responses: responseRepo,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Logger:    logr,
		Config: service.MatchServiceConfig{
			CacheTTL:    cfg.Matching.CacheTTL,
			MaxResults:  cfg.Matching.MaxResults,
			ReasonLimit: cfg.Matching.ReasonLimit,
		},
	})
	profileSvc := service.NewProfileService(profileRepo, matchSvc, logr)
	questionnaireSvc := service.NewQuestionnaireService(responseRepo, profileRepo, matchSvc, logr)
	apartmentSvc := service.NewApartmentService(apartmentRepo, logr)
	bookingSvc := service.NewBookingService(service.BookingServiceParams{
		Apartments:   apartmentRepo,
		Reservations: reservationRepo,
		Metrics:      metricsSvc,
		Logger:       logr,
	})
	paymentSvc := service.NewPaymentService(service.PaymentServiceParams{
		Payments:          paymentRepo,
		Reservations:      reservationRepo,
		Apartments:        apartmentRepo,
		Users:             userRepo,
		Store:             receiptStore,
		Signer:            receiptSigner,
		Metrics:           metricsSvc,
		Logger:            logr,
		SettlementDelay:   cfg.Payments.SettlementDelay,
		WorkerConcurrency: cfg.Payments.WorkerConcurrency,
		WorkerRetries:     cfg.Payments.WorkerRetries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Payments.Enabled {
		paymentSvc.Start(ctx)
		defer paymentSvc.Stop()

		go func() {
			ticker := time.NewTicker(cfg.Receipts.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					paymentSvc.CleanupReceipts(cfg.Receipts.SignedURLTTL)
				}
			}
		}()
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	questionnaireHandler := handler.NewQuestionnaireHandler(questionnaireSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)
	apartmentHandler := handler.NewApartmentHandler(apartmentSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api.GET("/questionnaire", questionnaireHandler.Catalog)
	api.GET("/apartments/:id", apartmentHandler.Get)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/profiles/me", profileHandler.Me)
	authed.PUT("/profiles/me", profileHandler.Upsert)
	authed.GET("/questionnaire/responses", questionnaireHandler.MyResponses)
	authed.PUT("/questionnaire/responses", questionnaireHandler.Submit)

	if cfg.Matching.Enabled {
		authed.GET("/matches", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), matchHandler.List)
	}

	owners := authed.Group("", middleware.RequireRoles(models.RoleOwner, models.RoleAdmin))
	owners.POST("/apartments", apartmentHandler.Create)
	owners.GET("/apartments", apartmentHandler.ListMine)
	owners.PUT("/apartments/:id/flags", apartmentHandler.UpdateFlags)
	owners.PUT("/apartments/:id/beds/:bedId", apartmentHandler.SetBedAvailability)
	owners.GET("/apartments/:id/bookings/export", bookingHandler.ExportCSV)

	if cfg.Bookings.Enabled {
		api.GET("/apartments/:id/availability", bookingHandler.Availability)
		api.GET("/apartments/:id/availability/check", bookingHandler.Check)
		authed.POST("/reservations", bookingHandler.Create)
		authed.GET("/reservations", bookingHandler.ListMine)
		authed.DELETE("/reservations/:id", bookingHandler.Cancel)
	}

	if cfg.Payments.Enabled {
		api.GET("/payments/receipt", paymentHandler.Receipt)
		authed.POST("/payments", paymentHandler.Create)
		authed.GET("/payments/:id", paymentHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
