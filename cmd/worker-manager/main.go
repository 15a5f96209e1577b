// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "pathfinder-workers/internal/common/aws"
	"pathfinder-workers/internal/common/camunda"
	"pathfinder-workers/internal/common/config"
	"pathfinder-workers/internal/common/database"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/observability"
	"pathfinder-workers/internal/recommendation"
	"pathfinder-workers/internal/repository/postgres"
	"pathfinder-workers/internal/repository/resultstore"

	// Guidance Workers (5)
	as "pathfinder-workers/internal/workers/guidance/aggregate-survey"
	cr "pathfinder-workers/internal/workers/guidance/compute-recommendations"
	ls "pathfinder-workers/internal/workers/guidance/load-saved-results"
	sr "pathfinder-workers/internal/workers/guidance/share-result"
	vt "pathfinder-workers/internal/workers/guidance/verify-test-id"
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

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client init failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Repositories & Engine ---
	scores := postgres.NewScoreRepository(pg.DB, log)
	programs := postgres.NewProgramRepository(pg.DB, rdb.Client, postgres.CacheConfig{
		Key: cfg.Catalog.CacheKey,
		TTL: time.Duration(cfg.Catalog.CacheTTLSeconds) * time.Second,
	}, log)
	results := resultstore.New(rdb.Client, resultstore.Config{
		KeyPrefix: cfg.Results.KeyPrefix,
		TTL:       time.Duration(cfg.Results.TTLHours) * time.Hour,
		MaxSaved:  cfg.Results.MaxSaved,
	}, log)

	engine, err := recommendation.NewEngine(recommendation.DefaultPolicy(), scores, programs, log)
	if err != nil {
		zapLog.Fatal("recommendation engine init failed", zap.Error(err))
	}

	// --- Notification senders (optional) ---
	var emailSender sr.EmailSender
	if cfg.Notifications.Email.Enabled {
		ses, err := awsclient.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		emailSender = ses
		zapLog.Info("SES client ready", zap.String("region", cfg.Notifications.AWS.Region))
	}
	var smsSender sr.SMSSender
	if cfg.Notifications.SMS.Enabled {
		sns, err := awsclient.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		smsSender = sns
		zapLog.Info("SNS client ready", zap.String("region", cfg.Notifications.AWS.Region))
	}

	// --- Register Workers ---
	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.JobHandler) {
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), taskType, cfg.Workers[taskType], handler, obs, log))
	}

	// Aggregate Survey
	if cfg.Workers[as.TaskType].Enabled {
		handler := as.NewHandler(as.ConfigFrom(cfg.Workers[as.TaskType]), log)
		start(as.TaskType, handler)
	}

	// Verify Test ID
	if cfg.Workers[vt.TaskType].Enabled {
		handler := vt.NewHandler(vt.ConfigFrom(cfg.Workers[vt.TaskType]), scores, log)
		start(vt.TaskType, handler)
	}

	// Compute Recommendations
	if cfg.Workers[cr.TaskType].Enabled {
		handler := cr.NewHandler(cr.ConfigFrom(cfg.Workers[cr.TaskType]), engine, results, log)
		start(cr.TaskType, handler)
	}

	// Load Saved Results
	if cfg.Workers[ls.TaskType].Enabled {
		handler := ls.NewHandler(ls.ConfigFrom(cfg.Workers[ls.TaskType]), results, engine.Policy(), log)
		start(ls.TaskType, handler)
	}

	// Share Result
	if cfg.Workers[sr.TaskType].Enabled {
		handler := sr.NewHandler(sr.ConfigFrom(cfg.Workers[sr.TaskType], cfg.Notifications), results, emailSender, smsSender, log)
		start(sr.TaskType, handler)
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, ping := range map[string]func(context.Context) error{
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
			"zeebe":    zeebe.HealthCheck,
		} {
			if err := ping(checkCtx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		checks["status"] = "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			checks["status"] = "not_ready"
		}
		checks["time"] = time.Now().Format(time.RFC3339)
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{
		Addr:              cfg.Server.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
