package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/georgemunganga/stylane-backend/internal/config"
	"github.com/georgemunganga/stylane-backend/internal/database"
	"github.com/georgemunganga/stylane-backend/internal/httpx"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/logger"
	"github.com/georgemunganga/stylane-backend/internal/modules/auth"
	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/georgemunganga/stylane-backend/internal/modules/pos"
	"github.com/georgemunganga/stylane-backend/internal/modules/report"
	"github.com/georgemunganga/stylane-backend/internal/modules/restock"
	"github.com/georgemunganga/stylane-backend/internal/modules/user"
	"github.com/georgemunganga/stylane-backend/internal/notify"
	"github.com/georgemunganga/stylane-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	format := cfg.LogFormat
	if cfg.IsProduction() {
		format = "json"
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: format})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to database")

	if cfg.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// ── Infrastructure ──────────────────────────────────────
	var blacklist auth.TokenBlacklist
	if cfg.RedisURL != "" {
		rb, err := auth.NewRedisBlacklist(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rb.Close()
		blacklist = rb
		log.Info("token blacklist: redis")
	} else {
		blacklist = auth.NewMemoryBlacklist()
		log.Warn("REDIS_URL not set, token blacklist is in-memory")
	}

	images, err := newImageStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to configure image storage", zap.Error(err))
	}

	notifier, err := notify.New(ctx, cfg.AWSRegion, cfg.SNSTopicARN, log)
	if err != nil {
		log.Fatal("failed to configure notifications", zap.Error(err))
	}

	// ── Modules ─────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, log)
	authService := auth.NewService(userRepo, blacklist, notifier, log, cfg.JWTSecret, cfg.JWTExpiration)

	storeRepo := inventory.NewStorePostgresRepository(db)
	productRepo := inventory.NewProductPostgresRepository(db)
	inventoryService := inventory.NewService(storeRepo, productRepo, images, notifier, log)

	saleRepo := pos.NewPostgresRepository(db)
	posService := pos.NewService(saleRepo, productRepo, log)

	restockRepo := restock.NewPostgresRepository(db)
	restockService := restock.NewService(restockRepo, productRepo, log)

	reportService := report.NewService(report.NewPostgresRepository(db), storeRepo, productRepo, saleRepo, restockRepo, log)

	authHandler := auth.NewHandler(authService, log)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(logger.Middleware(log))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.StorageDriver == "local" {
		prefix := strings.TrimRight(cfg.PublicBaseURL, "/")
		router.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(authService, log))
			authHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(log, identity.RoleAdmin))
				user.NewHandler(userService, log).RegisterRoutes(r)
			})

			inventory.NewHandler(inventoryService, log).RegisterRoutes(r)
			pos.NewHandler(posService, log).RegisterRoutes(r)
			restock.NewHandler(restockService, log).RegisterRoutes(r)
			report.NewHandler(reportService, log).RegisterRoutes(r)
		})
	})

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("StyleLane API server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newImageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ImageStore, error) {
	if cfg.StorageDriver == "s3" {
		s, err := storage.NewS3StoreFromConfig(ctx, storage.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		}, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		log.Info("image storage: s3", zap.String("bucket", cfg.S3Bucket))
		return s, nil
	}
	log.Info("image storage: local", zap.String("dir", cfg.UploadDir))
	return storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL), nil
}
