// cmd/lifecycle-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"admissions-automation/internal/audit"
	"admissions-automation/internal/common/config"
	"admissions-automation/internal/common/database"
	"admissions-automation/internal/common/logger"
	"admissions-automation/internal/engine"
	"admissions-automation/internal/notify"
	"admissions-automation/internal/store"
	"admissions-automation/internal/tasks"
	"admissions-automation/internal/tracker"
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting lifecycle manager...",
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
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
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Optional Elasticsearch audit indexer ---
	var trackerOpts []tracker.Option
	if cfg.Database.Elasticsearch.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := esClient.Ping(); err != nil {
			zapLog.Warn("elasticsearch unreachable, audit indexing degraded", zap.Error(err))
		}
		indexer := audit.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		trackerOpts = append(trackerOpts, tracker.WithIndexer(indexer))
		zapLog.Info("Audit indexer enabled", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	appStore := store.NewPostgres(pg.DB)
	statusTracker := tracker.New(appStore, log, trackerOpts...)

	// --- Notification sink ---
	var sink notify.Sink
	if cfg.Notifications.Email.Enabled {
		awsSink, err := notify.NewAWSSink(ctx, notify.AWSSinkConfig{
			EmailEnabled:     true,
			FromEmail:        cfg.Notifications.Email.FromEmail,
			SMSEnabled:       cfg.Notifications.SMS.Enabled,
			Region:           cfg.Notifications.AWS.Region,
			ReminderDedupTTL: time.Duration(cfg.Notifications.ReminderDedupTTLHours) * time.Hour,
		}, rdb.Client, log)
		if err != nil {
			zapLog.Fatal("notification sink init failed", zap.Error(err))
		}
		sink = awsSink
	} else {
		sink = notify.NewLogSink(log)
		zapLog.Info("Email disabled, using log-only notification sink")
	}

	// --- Workflow engine ---
	wf := engine.New(
		appStore,
		statusTracker,
		sink,
		tasks.NewLogScheduler(log),
		tasks.NewLogReviewers(log),
		log,
		engine.WithSweepLock(rdb.Client, cfg.Workflow.LockTTL()),
		engine.WithChunking(cfg.Workflow.ChunkSize, cfg.Workflow.ChunkDelay()),
	)

	if cfg.Workflow.RulesFile != "" {
		rules, err := engine.LoadRulesFile(cfg.Workflow.RulesFile)
		if err != nil {
			zapLog.Fatal("rules file load failed", zap.Error(err))
		}
		for _, rule := range rules {
			wf.AddWorkflowRule(rule)
		}
		zapLog.Info("Loaded workflow rules from file",
			zap.String("path", cfg.Workflow.RulesFile),
			zap.Int("count", len(rules)),
		)
	}

	// --- Sweep scheduler ---
	sweeper := cron.New()
	_, err = sweeper.AddFunc(cfg.Workflow.SweepCron, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := wf.ProcessAllWorkflows(sweepCtx); err != nil {
			zapLog.Error("workflow sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		zapLog.Fatal("invalid sweep cron spec", zap.Error(err), zap.String("spec", cfg.Workflow.SweepCron))
	}
	sweeper.Start()
	defer sweeper.Stop()
	zapLog.Info("Sweep scheduler started", zap.String("cron", cfg.Workflow.SweepCron))

	// --- Metrics endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "ok")
			})
			zapLog.Info("Metrics endpoint listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// --- Wait for shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zapLog.Info("Shutting down", zap.String("signal", sig.String()))
}
