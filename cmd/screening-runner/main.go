// cmd/screening-runner/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hr-screening/internal/ai"
	"hr-screening/internal/ai/gemini"
	"hr-screening/internal/ai/local"
	"hr-screening/internal/allocator"
	"hr-screening/internal/booking"
	"hr-screening/internal/calendar"
	"hr-screening/internal/common/config"
	"hr-screening/internal/common/database"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/common/observability"
	"hr-screening/internal/jobs"
	"hr-screening/internal/models"
	"hr-screening/internal/notify"
	"hr-screening/internal/results"
	"hr-screening/internal/workflow"
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
	jobPath := flag.String("job", "configs/job.json", "path to the job requirements JSON file")
	candidatesPath := flag.String("candidates", "configs/candidates.json", "path to the candidates JSON file")
	metricsAddr := flag.String("metrics-addr", ":8080", "health and metrics listen address")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting screening runner...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("screening-runner")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load inputs ---
	job, err := jobs.LoadRequirements(*jobPath)
	if err != nil {
		zapLog.Fatal("job requirements load failed", zap.Error(err))
	}

	candidates, err := jobs.LoadCandidates(*candidatesPath)
	if err != nil {
		zapLog.Fatal("candidates load failed", zap.Error(err))
	}
	zapLog.Info("inputs loaded",
		zap.String("jobTitle", job.Title),
		zap.Int("candidates", len(candidates)),
	)

	// --- Booking store ---
	bookingStore, closeBooking, err := buildBookingStore(ctx, cfg, log, zapLog)
	if err != nil {
		zapLog.Fatal("booking store init failed", zap.Error(err))
	}
	defer closeBooking()

	// --- Results store ---
	resultsStore, closeResults, err := buildResultsStore(ctx, cfg, log, zapLog)
	if err != nil {
		zapLog.Fatal("results store init failed", zap.Error(err))
	}
	defer closeResults()

	// --- Calendar policy and allocator ---
	policy, err := calendar.FromConfig(cfg.Interview)
	if err != nil {
		zapLog.Fatal("calendar policy invalid", zap.Error(err))
	}
	alloc := allocator.New(policy, bookingStore, cfg.Interview.HorizonDays, log)

	// --- Evaluation and content generation ---
	evaluator, generator := buildAI(ctx, cfg, log, zapLog)

	// --- Notification channels ---
	var notifier workflow.Notifier
	if cfg.Integrations.AWS.SES.Enabled || cfg.Integrations.AWS.SNS.Enabled {
		n, err := notify.New(ctx, notify.Config{
			Region:      cfg.Integrations.AWS.Region,
			FromEmail:   cfg.Integrations.AWS.SES.FromEmail,
			SESEnabled:  cfg.Integrations.AWS.SES.Enabled,
			SNSEnabled:  cfg.Integrations.AWS.SNS.Enabled,
			SMSSenderID: cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
		}, log)
		if err != nil {
			zapLog.Fatal("notifier init failed", zap.Error(err))
		}
		notifier = n
	}

	engine := workflow.New(evaluator, generator, alloc, resultsStore, notifier, cfg.Screening, cfg.Interview, log)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", *metricsAddr))
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Screen all candidates concurrently ---
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, candidate := range candidates {
		wg.Add(1)
		go func(c models.Candidate) {
			defer wg.Done()

			runCtx, end := obs.StartSpan(ctx, "screening.run")
			started := time.Now()
			state, err := engine.Run(runCtx, c, job)
			end()

			obs.RecordRunProcessed(runCtx, string(state.Step))
			obs.RecordRunDuration(runCtx, time.Since(started), string(state.Step))

			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(candidate)
	}
	wg.Wait()

	zapLog.Info("Screening runner finished",
		zap.Int("total", len(candidates)),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		os.Exit(1)
	}
}

func buildBookingStore(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (booking.Store, func(), error) {
	switch cfg.Booking.Backend {
	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, nil, err
		}
		store := booking.NewPostgresStore(pg.DB, log)
		if err := store.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return store, func() { pg.Close() }, nil

	case "redis":
		var redis *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, nil, err
		}
		return booking.NewRedisStore(redis.Client, log), func() { redis.Close() }, nil

	default:
		return booking.NewFileStore(cfg.Booking.FilePath, log), func() {}, nil
	}
}

func buildResultsStore(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (results.Store, func(), error) {
	var store results.Store
	closeFn := func() {}

	switch cfg.Results.Backend {
	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, nil, err
		}
		pgStore := results.NewPostgresStore(pg.DB, log)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		store = pgStore
		closeFn = func() { pg.Close() }

	default:
		store = results.NewFileStore(cfg.Results.FilePath, log)
	}

	if cfg.Results.Elasticsearch.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, skipping result indexing", zap.Error(err))
			return store, closeFn, nil
		}
		indexer := results.NewIndexer(esClient.Client, cfg.Results.Elasticsearch.Index, log)
		store = results.WithIndexer(store, indexer, log)
	}

	return store, closeFn, nil
}

func buildAI(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (ai.Evaluator, ai.ContentGenerator) {
	if cfg.Integrations.Gemini.APIKey != "" {
		client, err := gemini.NewGenerator(ctx, cfg.Integrations.Gemini.APIKey, cfg.Integrations.Gemini.Model)
		if err != nil {
			zapLog.Warn("gemini client init failed, falling back to local evaluation", zap.Error(err))
		} else {
			zapLog.Info("using Gemini evaluation", zap.String("model", client.Model()))
			screener := gemini.NewScreener(client, cfg.Screening.Weights, cfg.Screening.Thresholds, cfg.App.Name, log)
			return screener, screener
		}
	}

	zapLog.Info("using local evaluation")
	return local.NewEvaluator(cfg.Screening.Weights, cfg.Screening.Thresholds, log),
		local.NewContentGenerator(cfg.App.Name)
}
