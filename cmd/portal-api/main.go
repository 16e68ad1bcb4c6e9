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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gramseva/panchayat-api/api/swagger"
	"github.com/gramseva/panchayat-api/internal/handler"
	"github.com/gramseva/panchayat-api/internal/middleware"
	"github.com/gramseva/panchayat-api/internal/repository"
	"github.com/gramseva/panchayat-api/internal/service"
	"github.com/gramseva/panchayat-api/internal/translit"
	"github.com/gramseva/panchayat-api/pkg/cache"
	"github.com/gramseva/panchayat-api/pkg/config"
	"github.com/gramseva/panchayat-api/pkg/database"
	"github.com/gramseva/panchayat-api/pkg/jobs"
	"github.com/gramseva/panchayat-api/pkg/logger"
	corsmiddleware "github.com/gramseva/panchayat-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gramseva/panchayat-api/pkg/middleware/requestid"
	"github.com/gramseva/panchayat-api/pkg/storage"
	"github.com/gramseva/panchayat-api/pkg/tracking"
)

// @title Gram Panchayat Portal API
// @version 1.0.0
// @description Backend for the Gram Panchayat citizen services portal
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()
	generator := tracking.NewGenerator()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	birthRepo := repository.NewBirthCertificateRepository(db)
	deathRepo := repository.NewDeathCertificateRepository(db)
	marriageRepo := repository.NewMarriageCertificateRepository(db)
	leavingRepo := repository.NewLeavingCertificateRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	waterRepo := repository.NewWaterRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services
	metricsSvc := service.NewMetricsService()
	translitClient := translit.NewClient(translit.Config{
		APIURL:    cfg.Translit.APIURL,
		Timeout:   cfg.Translit.Timeout,
		ChunkSize: cfg.Translit.ChunkSize,
	}, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "panchayat-portal",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	complaintSvc := service.NewComplaintService(complaintRepo, userRepo, generator, validate, logr)
	birthSvc := service.NewBirthCertificateService(birthRepo, userRepo, generator, validate, logr)
	deathSvc := service.NewDeathCertificateService(deathRepo, userRepo, generator, validate, logr)
	marriageSvc := service.NewMarriageCertificateService(marriageRepo, userRepo, generator, validate, logr)
	leavingSvc := service.NewLeavingCertificateService(leavingRepo, userRepo, generator, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, cacheRepo, userRepo, metricsSvc, cfg.Cache.AnnouncementTTL, validate, logr)
	ocrSvc := service.NewOCRService(cfg.Uploads.MaxPDFSizeBytes, logr)
	waterSvc := service.NewWaterService(waterRepo, userRepo, generator, cfg.Uploads.MaxSheetSizeBytes, validate, logr)
	printSvc := service.NewPrintService(translitClient, leavingRepo, cfg.Print.DevanagariFontPath, logr)
	exportSvc := service.NewExportService(service.ExportServiceDeps{
		Jobs:     exportJobRepo,
		Birth:    birthRepo,
		Death:    deathRepo,
		Marriage: marriageRepo,
		Leaving:  leavingRepo,
	}, store, signer, cfg.Exports.SignedURLTTL, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	}, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exportSvc.Start(ctx, cfg.Exports.CleanupInterval)
	defer exportSvc.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	complaintHandler := handler.NewComplaintHandler(complaintSvc, metricsSvc)
	birthHandler := handler.NewBirthCertificateHandler(birthSvc, printSvc, metricsSvc)
	deathHandler := handler.NewDeathCertificateHandler(deathSvc, printSvc, metricsSvc)
	marriageHandler := handler.NewMarriageCertificateHandler(marriageSvc, printSvc, metricsSvc)
	leavingHandler := handler.NewLeavingCertificateHandler(leavingSvc, printSvc, metricsSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	ocrHandler := handler.NewOCRHandler(ocrSvc)
	waterHandler := handler.NewWaterHandler(waterSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	translitHandler := handler.NewTranslitHandler(translitClient, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Public endpoints: anonymous submission, tracking and lookups.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	api.POST("/complaints", complaintHandler.Create)
	api.GET("/complaints/track/:trackingNumber", complaintHandler.Track)

	api.POST("/certificates/birth", birthHandler.Create)
	api.GET("/certificates/birth/track/:trackingNumber", birthHandler.Track)
	api.POST("/certificates/death", deathHandler.Create)
	api.GET("/certificates/death/track/:trackingNumber", deathHandler.Track)
	api.POST("/certificates/marriage", marriageHandler.Create)
	api.GET("/certificates/marriage/track/:trackingNumber", marriageHandler.Track)
	api.POST("/certificates/leaving", leavingHandler.Create)
	api.GET("/certificates/leaving/track/:trackingNumber", leavingHandler.Track)

	api.GET("/announcements", announcementHandler.List)
	api.GET("/announcements/:id", announcementHandler.Get)

	api.POST("/translit", translitHandler.Transliterate)

	api.POST("/ocr/extract", ocrHandler.Extract)
	api.POST("/ocr/birth-certificate", ocrHandler.ExtractBirthCertificate)

	api.GET("/water/bills/:connectionNumber", waterHandler.Bills)
	api.POST("/water/payments", waterHandler.RecordPayment)
	api.POST("/property-payments", waterHandler.RecordPropertyPayment)

	// The signed token carries its own authorization, so the browser can
	// follow the link without an Authorization header.
	api.GET("/exports/download", exportHandler.Download)

	// Admin endpoints: token plus role, enforced server-side.
	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc), middleware.RequireAdmin())

	admin.POST("/auth/logout", authHandler.Logout)

	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	admin.GET("/complaints", complaintHandler.List)
	admin.GET("/complaints/:id", complaintHandler.Get)
	admin.PUT("/complaints/:id", complaintHandler.Update)
	admin.PATCH("/complaints/:id/status", complaintHandler.UpdateStatus)
	admin.DELETE("/complaints/:id", complaintHandler.Delete)

	admin.GET("/certificates/birth", birthHandler.List)
	admin.GET("/certificates/birth/:id", birthHandler.Get)
	admin.PUT("/certificates/birth/:id", birthHandler.Update)
	admin.PATCH("/certificates/birth/:id/status", birthHandler.UpdateStatus)
	admin.GET("/certificates/birth/:id/print", birthHandler.Print)
	admin.DELETE("/certificates/birth/:id", birthHandler.Delete)

	admin.GET("/certificates/death", deathHandler.List)
	admin.GET("/certificates/death/:id", deathHandler.Get)
	admin.PUT("/certificates/death/:id", deathHandler.Update)
	admin.PATCH("/certificates/death/:id/status", deathHandler.UpdateStatus)
	admin.GET("/certificates/death/:id/print", deathHandler.Print)
	admin.DELETE("/certificates/death/:id", deathHandler.Delete)

	admin.GET("/certificates/marriage", marriageHandler.List)
	admin.GET("/certificates/marriage/:id", marriageHandler.Get)
	admin.PUT("/certificates/marriage/:id", marriageHandler.Update)
	admin.PATCH("/certificates/marriage/:id/status", marriageHandler.UpdateStatus)
	admin.GET("/certificates/marriage/:id/print", marriageHandler.Print)
	admin.DELETE("/certificates/marriage/:id", marriageHandler.Delete)

	admin.GET("/certificates/leaving", leavingHandler.List)
	admin.GET("/certificates/leaving/:id", leavingHandler.Get)
	admin.PUT("/certificates/leaving/:id", leavingHandler.Update)
	admin.PATCH("/certificates/leaving/:id/status", leavingHandler.UpdateStatus)
	admin.GET("/certificates/leaving/:id/print", leavingHandler.Print)
	admin.DELETE("/certificates/leaving/:id", leavingHandler.Delete)

	admin.POST("/announcements", announcementHandler.Create)
	admin.PUT("/announcements/:id", announcementHandler.Update)
	admin.DELETE("/announcements/:id", announcementHandler.Delete)

	admin.POST("/water/connections/upload", waterHandler.UploadConnections)
	admin.POST("/water/payments/bulk", waterHandler.UploadPayments)

	admin.POST("/exports", exportHandler.Create)
	admin.GET("/exports/:id", exportHandler.Status)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
