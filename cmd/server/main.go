package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sumire/market/internal/config"
	"github.com/sumire/market/internal/event"
	"github.com/sumire/market/internal/handler"
	"github.com/sumire/market/internal/repository"
	"github.com/sumire/market/internal/service"
	"github.com/sumire/market/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database migrated")
	}

	db, err := repository.Open(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("database connected")

	var events service.EventPublisher = event.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kafka.Close()
		events = kafka
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var objects service.ObjectStore
	if cfg.CloudinaryURL != "" {
		store, err := storage.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			return err
		}
		objects = store
	} else {
		logger.Warn("CLOUDINARY_URL not set, image uploads are disabled")
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		KakaoClientID:     cfg.KakaoClientID,
		KakaoClientSecret: cfg.KakaoClientSecret,
		KakaoRedirectURI:  cfg.KakaoRedirectURI,
		KakaoAuthURL:      cfg.KakaoAuthURL,
		KakaoTokenURL:     cfg.KakaoTokenURL,
		KakaoUserInfoURL:  cfg.KakaoUserInfoURL,
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.TokenTTL,
	}, logger)
	uploadSvc := service.NewUploadService(objects, cfg.UploadFolder, logger)
	userSvc := service.NewUserService(userRepo, events, logger)
	productSvc := service.NewProductService(service.ProductDeps{
		Products:   productRepo,
		Categories: categoryRepo,
		Users:      userRepo,
		Followers:  followRepo,
		Reviews:    reviewRepo,
		Likes:      likeRepo,
	}, logger)
	likeSvc := service.NewLikeService(userRepo, productRepo, likeRepo, logger)
	followSvc := service.NewFollowService(userRepo, followRepo, logger)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, userRepo, logger)
	orderSvc := service.NewOrderService(orderRepo, events, logger)
	categorySvc := service.NewCategoryService(categoryRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(handler.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	e.Use(middleware.BodyLimit("6M"))

	handler.Register(e, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Users:      handler.NewUserHandler(userSvc, uploadSvc),
		Products:   handler.NewProductHandler(productSvc, uploadSvc),
		Categories: handler.NewCategoryHandler(categorySvc),
		Likes:      handler.NewLikeHandler(likeSvc),
		Follows:    handler.NewFollowHandler(followSvc),
		Reviews:    handler.NewReviewHandler(reviewSvc),
		Orders:     handler.NewOrderHandler(orderSvc),
	}, handler.JWTAuth(authSvc))

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
