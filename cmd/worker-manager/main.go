// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rooms-workers/internal/common/camunda"
	"rooms-workers/internal/common/config"
	"rooms-workers/internal/common/database"
	commonhttp "rooms-workers/internal/common/http"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/observability"
	"rooms-workers/internal/common/validation"
	"rooms-workers/internal/listings"
	"rooms-workers/pkg/registry"

	rbd "rooms-workers/internal/workers/listings/rank-by-distance"
	sl "rooms-workers/internal/workers/listings/search-listings"
	sr "rooms-workers/internal/workers/requests/summarize-requests"
	cvm "rooms-workers/internal/workers/vibe/calculate-vibe-match"
	dvt "rooms-workers/internal/workers/vibe/derive-vibe-tags"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// dialWithRetry opens a client and pings it, closing a client whose ping
// failed before the next attempt.
func dialWithRetry[C io.Closer](open func() (C, error), ping func(C) error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) (C, error) {
	var client C
	err := retryWithBackoff(func() error {
		c, err := open()
		if err != nil {
			return err
		}
		if err := ping(c); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	}, maxRetries, initialDelay, log, operationName)
	return client, err
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("environment", cfg.App.Environment),
		zap.String("listingSource", cfg.Listings.Source),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()
	checks := map[string]func(context.Context) error{}

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	checks["zeebe"] = zeebe.HealthCheck

	// --- Activity registry and input schemas ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schema compile failed", zap.Error(err))
	}

	// --- Listing source ---
	var source listings.Source
	switch cfg.Listings.Source {
	case config.ListingSourcePostgres:
		pg, err := dialWithRetry(
			func() (*database.PostgresClient, error) { return database.NewPostgres(cfg.Database.Postgres) },
			func(c *database.PostgresClient) error { return c.Ping(ctx) },
			15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		checks["postgres"] = pg.Ping
		source = listings.NewRepository(pg.DB, log)
		zapLog.Info("PostgreSQL connected successfully")

	case config.ListingSourceAPI:
		httpClient := commonhttp.NewClient(config.GetDuration(cfg.Listings.APITimeout))
		source = listings.NewAPIClient(cfg.Listings.APIBaseURL, cfg.Listings.APIToken, httpClient, log)
		zapLog.Info("using marketplace API listing source", zap.String("baseURL", cfg.Listings.APIBaseURL))
	}

	if cfg.Listings.CacheTTL > 0 {
		rdb, err := dialWithRetry(
			func() (*database.RedisClient, error) { return database.NewRedis(cfg.Database.Redis), nil },
			func(c *database.RedisClient) error { return c.Ping(ctx) },
			10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = rdb.Ping
		source = listings.NewCachedSource(source, rdb.Client, cfg.Listings.CacheTTLDuration(), log)
		zapLog.Info("listing cache enabled", zap.Duration("ttl", cfg.Listings.CacheTTLDuration()))
	}

	// --- Workers ---
	manager := camunda.NewWorkerManager(zeebe.GetClient(), obs, log)
	defer manager.Close()

	manager.Register(dvt.TaskType, config.GetWorkerConfig(cfg, dvt.TaskType),
		dvt.NewHandler(dvt.LoadConfig(config.GetWorkerConfig(cfg, dvt.TaskType), cfg.Listings.Source), source, validator, log).Handle)

	manager.Register(cvm.TaskType, config.GetWorkerConfig(cfg, cvm.TaskType),
		cvm.NewHandler(cvm.LoadConfig(config.GetWorkerConfig(cfg, cvm.TaskType), cfg.Listings.Source), source, validator, obs, log).Handle)

	manager.Register(rbd.TaskType, config.GetWorkerConfig(cfg, rbd.TaskType),
		rbd.NewHandler(rbd.LoadConfig(config.GetWorkerConfig(cfg, rbd.TaskType), cfg.Listings.Source), source, validator, obs, log).Handle)

	if config.IsWorkerEnabled(cfg, sl.TaskType) {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checks["elasticsearch"] = es.Ping
		zapLog.Info("Elasticsearch connected successfully")

		searcher := listings.NewSearcher(es.Client, cfg.Listings.SearchIndex, cfg.Listings.SearchSize, log)
		wcfg := config.GetWorkerConfig(cfg, sl.TaskType)
		manager.Register(sl.TaskType, wcfg, sl.NewHandler(sl.LoadConfig(wcfg), searcher, validator, obs, log).Handle)
	}

	manager.Register(sr.TaskType, config.GetWorkerConfig(cfg, sr.TaskType),
		sr.NewHandler(sr.LoadConfig(config.GetWorkerConfig(cfg, sr.TaskType)), validator, log).Handle)

	zapLog.Info("workers registered", zap.Strings("taskTypes", manager.TaskTypes()))

	// --- Health, readiness and metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	mux.HandleFunc("/ready", readyHandler(checks))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http server shutdown", zap.Error(err))
	}
}

// readyHandler reports 503 with the failing dependencies when any check fails.
func readyHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failures := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failures[name] = err.Error()
			}
		}

		if len(failures) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"checks": failures,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
