package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopilot/internal/config"
	"gopilot/internal/handlers"
	"gopilot/internal/middleware"
	"gopilot/internal/repositories/mongodb"
	"gopilot/internal/services"
	"gopilot/internal/utils"
	"gopilot/pkg/logger"
	"gopilot/pkg/storage"
	"gopilot/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Missing .env is fine, the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: logFormat(cfg),
		Output: "stdout",
		Colors: cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	mongoClient, err := connectMongo(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("failed to disconnect from MongoDB")
		}
	}()
	db := mongoClient.Database(cfg.Database.Database)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisClient.Close()

	cache := services.NewCacheService(redisClient, "gopilot:", log)
	if err := cache.Ping(ctx); err != nil {
		// The cache is an optimization, not a dependency. Repositories
		// and the login limiter degrade gracefully without it.
		log.WithError(err).Warn("Redis unavailable, running without cache")
	}

	userRepo := mongodb.NewUserRepository(db, cache)
	driverRepo := mongodb.NewDriverRepository(db, cache)
	bookingRepo := mongodb.NewBookingRepository(db, cache)

	provider, imageKit, err := buildStorageProvider(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("failed to configure storage")
	}

	authService := services.NewAuthService(userRepo, cache, cfg.Security.JWTSecret, cfg.Security.MaxLoginAttempts)
	userService := services.NewUserService(userRepo)
	driverService := services.NewDriverService(driverRepo, userRepo)
	bookingService := services.NewBookingService(bookingRepo, driverRepo, userRepo)
	reportService := services.NewReportService(userRepo, driverRepo, bookingRepo)
	uploadService := services.NewUploadService(provider)

	router := buildRouter(cfg, log, &routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		User:    handlers.NewUserHandler(userService),
		Driver:  handlers.NewDriverHandler(driverService, uploadService),
		Booking: handlers.NewBookingHandler(bookingService),
		Admin:   handlers.NewAdminHandler(userService, driverService, bookingService, reportService),
		Upload:  handlers.NewUploadHandler(imageKit),
	}, middleware.AuthRequired(userRepo, cfg.Security.JWTSecret))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}

func connectMongo(ctx context.Context, cfg *config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(uint64(cfg.MaxPoolSize)).
		SetMinPoolSize(uint64(cfg.MinPoolSize)).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetSocketTimeout(cfg.SocketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// buildStorageProvider returns the configured backend. The ImageKit
// client is returned separately because the direct-upload auth endpoint
// needs it even though the rest of the app only sees the interface.
func buildStorageProvider(cfg *config.StorageConfig) (storage.StorageProvider, *storage.ImageKitStorage, error) {
	switch cfg.Provider {
	case "s3":
		s3, err := storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, cfg.AWS.CDNDomain)
		return s3, nil, err
	case "imagekit":
		ik := storage.NewImageKitStorage(cfg.ImageKit.PublicKey, cfg.ImageKit.PrivateKey, cfg.ImageKit.URLEndpoint, cfg.ImageKit.UploadURL)
		return ik, ik, nil
	default:
		local, err := storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
		return local, nil, err
	}
}

func buildRouter(cfg *config.Config, log *logger.Logger, h *routes.Handlers, authRequired gin.HandlerFunc) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.MaxMultipartMemory = utils.MaxDocumentSize

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	routes.Setup(router, h, authRequired)
	return router
}

func logFormat(cfg *config.Config) string {
	if cfg.App.Debug {
		return "text"
	}
	return "json"
}
