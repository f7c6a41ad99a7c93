package main

import (
	"cloud-drive/config"
	_ "cloud-drive/docs"
	"cloud-drive/internal/handler"
	"cloud-drive/internal/logging"
	"cloud-drive/internal/metrics"
	"cloud-drive/internal/notify"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/ratelimit"
	"cloud-drive/internal/repository"
	"cloud-drive/internal/repository/memory"
	"cloud-drive/internal/security"
	"cloud-drive/internal/service"
	"cloud-drive/internal/storage"
	"cloud-drive/internal/worker"
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title cloud-drive
// @version 1.0
// @description File and folder metadata, versions, trash, share links and sync status

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	issueToken := flag.String("issue-token", "", "print an access token for this user uuid and exit")
	issueAdmin := flag.Bool("admin", false, "with -issue-token: grant admin rights")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logging.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync()

	jwtService := security.NewJWTService(cfg.JWT)
	if *issueToken != "" {
		token, err := jwtService.GenerateAccessToken(*issueToken, *issueAdmin)
		if err != nil {
			logging.Error("[main] issue token", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	deps, closeAll, err := buildDependencies(ctx, cfg, m)
	if err != nil {
		logging.Error("[main] startup failed", zap.Error(err))
		os.Exit(1)
	}
	defer closeAll()

	nodeService := service.NewNodeService(deps)
	versionService := service.NewVersionService(deps)
	trashService := service.NewTrashService(deps)
	shareService := service.NewShareService(deps)
	syncService := service.NewSyncService(deps)
	quotaService := service.NewQuotaService(deps)

	limiter := ratelimit.NewPerIP(cfg.RateLimit.PublicRPS, cfg.RateLimit.PublicBurst)

	srv, router := config.SetupServer(cfg.Server)
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Timeout(cfg.Server.RequestTimeout))
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Handle("/metrics", metrics.Handler(registry))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	handler.RegisterRoutes(router, handler.Handlers{
		Nodes:    handler.NewNodeHandler(nodeService, cfg.Server.MaxUploadBytes),
		Versions: handler.NewVersionHandler(versionService, cfg.Server.MaxUploadBytes),
		Trash:    handler.NewTrashHandler(trashService),
		Shares:   handler.NewShareHandler(shareService),
		Sync:     handler.NewSyncHandler(syncService),
		Quota:    handler.NewQuotaHandler(quotaService),
	}, security.JWTMiddleware(jwtService), limiter.Middleware)

	sweeper := worker.NewRetentionSweeper(trashService, cfg.Trash.Retention, cfg.Trash.SweepInterval, m)
	sweeper.OnTick(func() {
		if dropped := limiter.Sweep(); dropped > 0 {
			logging.Debug("[main] idle rate limit entries dropped", zap.Int("count", dropped))
		}
	})
	go sweeper.Run(ctx)

	logging.Info("[main] starting", zap.String("mode", cfg.Mode), zap.String("addr", cfg.Server.Addr))
	runServer(ctx, srv, cfg.Server.ShutdownTimeout)
}

// buildDependencies : store, object storage, cache and notifier for cfg.Mode
func buildDependencies(ctx context.Context, cfg *config.AppConfig, m *metrics.Metrics) (service.Dependencies, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logging.Warn("[main] close", zap.Error(err))
			}
		}
	}

	deps := service.Dependencies{
		Metrics: m,
		Options: service.Options{
			DefaultQuota: cfg.Quota.DefaultLimit,
			MaxDepth:     cfg.Tree.MaxDepth,
			BatchSize:    cfg.Trash.BatchSize,
			SignedURLTTL: cfg.TTL.SignedURL,
		},
	}

	switch cfg.Mode {
	case config.ModeMemory:
		store := memory.NewStore()
		deps.Tx, deps.Nodes, deps.Versions, deps.Quotas, deps.Shares, deps.Deletions = store, store, store, store, store, store
	default:
		db, err := config.SetupDatabase(cfg.DatabaseConfig)
		if err != nil {
			return deps, closeAll, err
		}
		closers = append(closers, db.Close)
		if cfg.DatabaseConfig.Migrate {
			if err := db.RunMigrations(ctx); err != nil {
				closeAll()
				return deps, func() {}, err
			}
		}
		deps.Tx = repository.NewTxManager(db)
		deps.Nodes = repository.NewNodeRepository()
		deps.Versions = repository.NewVersionRepository()
		deps.Quotas = repository.NewQuotaRepository()
		deps.Shares = repository.NewShareRepository()
		deps.Deletions = repository.NewObjectDeletionRepository()
	}

	var objects ports.ObjectStorage
	if cfg.S3Config.Backend == "memory" {
		objects = storage.NewMemoryStorage()
	} else {
		s3Storage, err := storage.NewS3Storage(ctx, &cfg.S3Config)
		if err != nil {
			closeAll()
			return deps, func() {}, err
		}
		objects = s3Storage
	}
	deps.Storage = storage.NewRetryingStorage(objects, cfg.Retry.Attempts, cfg.Retry.BaseDelay, m)

	deps.Notifier = notify.LogNotifier{}
	if cfg.RedisConfig.Enabled {
		redisClient, err := config.SetupRedis(&cfg.RedisConfig)
		if err != nil {
			closeAll()
			return deps, func() {}, err
		}
		closers = append(closers, redisClient.Close)
		deps.Cache = repository.NewCacheRepository(redisClient, cfg.TTL.ShareCache)
		deps.Notifier = notify.NewRedisNotifier(redisClient)
	}

	return deps, closeAll, nil
}

func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("[main] server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	logging.Info("[main] server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logging.Info("[main] shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("[main] forced shutdown", zap.Error(err))
		return
	}
	logging.Info("[main] server stopped")
}
