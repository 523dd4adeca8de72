package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kova-store/internal/config"
	"kova-store/internal/db"
	"kova-store/internal/email"
	apihttp "kova-store/internal/http"
	"kova-store/internal/repository"
	"kova-store/internal/service"
	"kova-store/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	productRepo := repository.NewPgProductRepository(pool)
	orderRepo := repository.NewPgOrderRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		catalogCache = service.NewMemoryCatalogCache()
		otpLimiter   service.OTPRateLimiter
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory catalog cache", zap.Error(err))
			redisClient = nil
		} else {
			catalogCache = service.NewRedisCatalogCache(redisClient)
		}
		cancel()
	}
	if cfg.OTPRateLimitMax > 0 {
		window := time.Duration(cfg.OTPRateLimitWindowMinutes) * time.Minute
		if redisClient != nil {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, window, cfg.OTPRateLimitMax)
		} else {
			otpLimiter = service.NewOTPRateLimiter(window, cfg.OTPRateLimitMax)
		}
	}

	var (
		objectStore storage.ObjectStore
		uploadDir   string
	)
	if cfg.S3Bucket != "" {
		objectStore, err = storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Fatal("s3 store init", zap.Error(err))
		}
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/uploads")
		if err != nil {
			logger.Fatal("local store init", zap.Error(err))
		}
		objectStore = local
		uploadDir = local.Dir()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL())
	otpStore := service.NewOTPStore(userRepo, cfg.OTPTTL())
	authSvc := service.NewAuthService(logger, otpStore, jwtSvc, emailSender, otpLimiter)
	userSvc := service.NewUserService(logger, userRepo)
	catalogSvc := service.NewCatalogService(logger, productRepo, catalogCache, cfg.CatalogCacheTTL())
	orderSvc := service.NewOrderService(logger, orderRepo)
	uploadSvc := service.NewUploadService(logger, objectStore)
	guard := service.NewAccessGuard(userRepo, jwtSvc)

	router := apihttp.NewRouter(logger, apihttp.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		UploadDir:      uploadDir,
	}, guard, apihttp.Handlers{
		Users:    apihttp.NewUserHandler(logger, authSvc, userSvc),
		Products: apihttp.NewProductHandler(logger, catalogSvc),
		Orders:   apihttp.NewOrderHandler(logger, orderSvc),
		Uploads:  apihttp.NewUploadHandler(logger, uploadSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
