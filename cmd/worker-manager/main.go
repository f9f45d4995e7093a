package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"essay-mentor/internal/common/camunda"
	"essay-mentor/internal/common/config"
	"essay-mentor/internal/common/database"
	"essay-mentor/internal/common/logger"
	"essay-mentor/internal/common/observability"
	"essay-mentor/internal/common/validation"
	"essay-mentor/internal/essay/pipeline"
	"essay-mentor/pkg/registry"

	ae "essay-mentor/internal/workers/essay/analyze-essay"
	cp "essay-mentor/internal/workers/essay/classify-prompt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.Tracing, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		obs.Shutdown(shutdownCtx)
	}()

	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", nil)

	cache := connectCache(ctx, cfg.Redis, log)
	if cache != nil {
		defer cache.Close()
	}

	reg, err := registry.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		log.Warn("activity registry not loaded, using built-in input schemas", map[string]interface{}{
			"path":  cfg.RegistryPath,
			"error": err.Error(),
		})
	}

	analyzer := pipeline.New(log,
		pipeline.WithObservability(obs),
		pipeline.WithMinEssayLength(cfg.Essay.MinEssayLength),
		pipeline.WithDefaultTargetWords(cfg.Essay.DefaultTargetWords),
		pipeline.WithPersonalizedFeedback(cfg.Essay.PersonalizeFeedback),
	)

	var workers []*camunda.CamundaWorker

	cpHandler := cp.NewHandler(cp.HandlerOptions{
		Config:        cp.LoadConfig(cfg),
		Analyzer:      analyzer,
		InputSchema:   inputSchema(reg, cp.TaskType, log),
		Observability: obs,
		Logger:        log,
	})
	workers = append(workers, camunda.StartWorker(zeebe.GetClient(), cp.TaskType, config.GetWorkerConfig(cfg, cp.TaskType), cpHandler, log))

	aeHandler := ae.NewHandler(ae.HandlerOptions{
		Config:        ae.LoadConfig(cfg),
		Analyzer:      analyzer,
		InputSchema:   inputSchema(reg, ae.TaskType, log),
		Cache:         cache,
		Observability: obs,
		Logger:        log,
	})
	workers = append(workers, camunda.StartWorker(zeebe.GetClient(), ae.TaskType, config.GetWorkerConfig(cfg, ae.TaskType), aeHandler, log))

	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           newMux(zeebe, cache, cfg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("Metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error stopping metrics server", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("Worker manager stopped gracefully", nil)
}

// connectCache returns nil when Redis is not configured or unreachable; analyze-essay then
// computes every job.
func connectCache(ctx context.Context, cfg config.RedisConfig, log logger.Logger) *database.RedisClient {
	if cfg.Address == "" {
		log.Info("Redis not configured, result cache disabled", nil)
		return nil
	}
	cache, err := database.NewRedis(cfg)
	if err != nil {
		log.Warn("Redis client not created, result cache disabled", map[string]interface{}{"error": err.Error()})
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn("Redis unreachable, result cache disabled", map[string]interface{}{"error": err.Error()})
		_ = cache.Close()
		return nil
	}
	log.Info("Redis connected successfully", nil)
	return cache
}

// inputSchema returns the registry's schema for taskType, or nil so the worker uses its default.
func inputSchema(reg *registry.ActivityRegistry, taskType string, log logger.Logger) *validation.Schema {
	if reg == nil {
		return nil
	}
	s, err := reg.InputSchema(taskType)
	if err != nil {
		log.Warn("registry input schema unusable, using built-in schema", map[string]interface{}{
			"taskType": taskType,
			"error":    err.Error(),
		})
		return nil
	}
	return s
}

func newMux(zeebe *camunda.Client, cache *database.RedisClient, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "redis": "disabled"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(ctx); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				// Cache failures degrade readiness without failing it.
				checks["redis"] = err.Error()
			}
		}
		writeJSON(w, status, map[string]interface{}{"checks": checks})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
