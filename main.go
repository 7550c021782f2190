package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/vanotis720/SampleTaskAPI/internal/config"
	"github.com/vanotis720/SampleTaskAPI/internal/database"
	"github.com/vanotis720/SampleTaskAPI/internal/monitoring"
	"github.com/vanotis720/SampleTaskAPI/internal/ratelimit"
	"github.com/vanotis720/SampleTaskAPI/internal/router"
	"github.com/vanotis720/SampleTaskAPI/internal/storage"
	"github.com/vanotis720/SampleTaskAPI/internal/translator"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	translator.InitTranslator(translator.Config{
		TranslationFolder:  os.Getenv("TRANSLATION_FOLDER"),
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	pool, err := database.NewDatabasePool(poolConfig(cfg))
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(pool.DB); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = ratelimit.NewRedisClient(cfg.Redis)
	}

	ctx := context.Background()
	store, err := storage.NewFileStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open file store", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}

	limiter := ratelimit.New(cfg.RateLimit, redisClient)

	monitor := monitoring.New()
	monitor.RegisterHealthCheck("database", pool.Ping)
	if redisClient != nil {
		monitor.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if checker, ok := store.(healthChecker); ok {
		monitor.RegisterHealthCheck("storage", checker.Health)
	}

	engine := router.New(router.Dependencies{
		Config:  cfg,
		DB:      pool.DB,
		Store:   store,
		Limiter: limiter,
		Monitor: monitor,
		Logger:  logger,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("redis", redisClient != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"task-api": func(ctx context.Context) error {
			logger.Info("graceful shutdown initiated")
			// Connections close only after in-flight requests have drained.
			err := server.Shutdown(ctx)
			if closer, ok := limiter.(interface{ Close() }); ok {
				closer.Close()
			}
			if redisClient != nil {
				err = errors.Join(err, redisClient.Close())
			}
			return errors.Join(err, store.Close(), pool.Close())
		},
	})

	exitCode := <-wait
	logger.Info("server exited", zap.Int("code", exitCode))
	os.Exit(exitCode)
}

func poolConfig(cfg *config.Config) *database.PoolConfig {
	pc := database.DefaultPoolConfig()
	pc.Driver = cfg.Database.Driver
	pc.DSN = cfg.GetDatabaseDSN()
	pc.MaxOpenConns = cfg.Database.MaxOpenConns
	pc.MaxIdleConns = cfg.Database.MaxIdleConns
	pc.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	pc.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
	if cfg.IsProduction() {
		pc.LogLevel = logger.Warn
	}
	return pc
}
