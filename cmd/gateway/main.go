package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cleareds/plantspack-sub002/pkg/classification"
	"github.com/Cleareds/plantspack-sub002/pkg/config"
	handlers "github.com/Cleareds/plantspack-sub002/pkg/handlers/http"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/auth"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/database"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/httpx"
	infraLogger "github.com/Cleareds/plantspack-sub002/pkg/infra/logger"
	"github.com/Cleareds/plantspack-sub002/pkg/infra/prometheus"
	"github.com/Cleareds/plantspack-sub002/pkg/middleware"
	"github.com/Cleareds/plantspack-sub002/pkg/moderation"
	"github.com/Cleareds/plantspack-sub002/pkg/policy"
	"github.com/Cleareds/plantspack-sub002/pkg/quota"
	"github.com/Cleareds/plantspack-sub002/pkg/server"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Initialize()

	store, closeStore, err := buildQuotaStore(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize quota store: %v", err)
	}
	defer closeStore()

	gate := quota.NewGate(quota.NewFailOpenStore(store, logger))
	limits := buildLimits(cfg)

	classifier := classification.NewAdapter(buildClassifier(cfg, logger), logger)
	scorer := moderation.NewService(buildScorer(cfg, logger), logger)

	middlewareTransport := middleware.Transport{
		TraceMiddleware:        middleware.NewTraceMiddleware(),
		AuthMiddleware:         middleware.NewAuthMiddleware(logger, auth.NewJWTVerifier(cfg.Auth.JWTSecret)),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		GateSubmissionHandler: handlers.NewGateSubmissionHandler(handlers.GateSubmissionHandlerDeps{
			Logger:           logger,
			Gate:             gate,
			Limits:           limits,
			Classifier:       classifier,
			Scorer:           scorer,
			MaxContentLength: cfg.Content.MaxLength,
		}),
		ClassifyContentHandler: handlers.NewClassifyContentHandler(handlers.ClassifyContentHandlerDeps{
			Logger:           logger,
			Gate:             gate,
			Limits:           limits,
			Classifier:       classifier,
			MaxContentLength: cfg.Content.MaxLength,
		}),
		ModerateContentHandler: handlers.NewModerateContentHandler(handlers.ModerateContentHandlerDeps{
			Logger:           logger,
			Scorer:           scorer,
			MaxContentLength: cfg.Content.MaxLength,
		}),
	}

	srv := server.NewGatewayServer(server.GatewayServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Error("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down trust gateway")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
}

func buildQuotaStore(cfg *config.Config, logger *logrus.Logger) (quota.Store, func(), error) {
	switch cfg.Quota.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return quota.NewRedisStore(client), func() { _ = client.Close() }, nil
	case "postgres":
		db, err := database.NewDB(logger, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		return quota.NewPostgresStore(db), closeDB, nil
	case "memory":
		logger.Warn("using in-memory quota store: state is lost on restart and not shared between instances")
		store := quota.NewMemoryStore(&quota.MemoryStoreOpts{
			SweepInterval: config.ParseDuration(cfg.Quota.SweepInterval, 0),
		})
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown quota backend %q", cfg.Quota.Backend)
	}
}

func buildLimits(cfg *config.Config) map[string]policy.Limit {
	overrides := make(map[string]policy.Limit, len(cfg.Quota.Limits))
	for action, limit := range cfg.Quota.Limits {
		overrides[action] = policy.Limit{
			Limit:  limit.Limit,
			Window: config.ParseDuration(limit.Window, 0),
		}
	}
	return policy.Merge(overrides)
}

func buildClassifier(cfg *config.Config, logger *logrus.Logger) classification.Classifier {
	primary, err := classification.NewOpenAIClassifier(classification.Config{
		APIKey:  cfg.Providers.Classifier.APIKey,
		Model:   cfg.Providers.Classifier.Model,
		Timeout: config.ParseDuration(cfg.Providers.Classifier.Timeout, 0),
	})
	if err != nil {
		logConfigurationFallback(logger, err, "semantic classifier")
		return nil
	}
	return primary
}

func buildScorer(cfg *config.Config, logger *logrus.Logger) moderation.Scorer {
	scorer, err := moderation.NewOpenAIScorer(
		logger,
		&http.Client{},
		httpx.NewCircuitBreaker("moderation", 30*time.Second, 5),
		moderation.Config{
			APIKey:  cfg.Providers.Moderation.APIKey,
			URL:     cfg.Providers.Moderation.URL,
			Timeout: config.ParseDuration(cfg.Providers.Moderation.Timeout, 0),
		},
	)
	if err != nil {
		logConfigurationFallback(logger, err, "moderation scorer")
		return nil
	}
	return scorer
}

// logConfigurationFallback announces a permanent degrade to the local
// fallback. Missing credentials are never fatal.
func logConfigurationFallback(logger *logrus.Logger, err error, dependency string) {
	logger.WithError(err).Warnf("%s not configured, using local fallback", dependency)
}
