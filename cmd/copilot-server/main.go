// cmd/copilot-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"support-copilot/internal/api"
	"support-copilot/internal/cache"
	"support-copilot/internal/classifier"
	"support-copilot/internal/common/config"
	"support-copilot/internal/common/database"
	"support-copilot/internal/common/logger"
	"support-copilot/internal/common/observability"
	"support-copilot/internal/history"
	"support-copilot/internal/notify"
	"support-copilot/internal/repository"
	"support-copilot/internal/sentiment"
	"support-copilot/internal/service"

	pt "support-copilot/internal/workers/ticket/process-ticket"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting support copilot server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("support-copilot")
	defer obs.Shutdown()

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
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Build the classification pipeline ---
	analyzer := sentiment.NewAnalyzer(cfg.Sentiment.ModelPath, log)
	llm := classifier.NewLLM(cfg.LLM, log)
	statistical := classifier.NewStatistical(analyzer, log)
	cascade := classifier.NewCascade(llm, statistical, log)

	ticketRepo := repository.NewTicketRepository(pg.DB, log)
	resultCache := cache.NewResultCache(redisClient.Client, config.GetDuration(cfg.Cache.TTL), log)

	var historySink service.HistoryIndexer
	if esClient != nil {
		historySink = history.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log)
	}

	var notifier service.Notifier
	if cfg.Notifications.Email.Enabled {
		emailNotifier, err := notify.NewEmailNotifier(cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("failed to create email notifier", zap.Error(err))
		}
		notifier = emailNotifier
	}

	processor := service.NewProcessor(cascade, ticketRepo, resultCache, historySink, notifier, log).
		WithObservability(obs)

	// --- Zeebe workers (optional) ---
	if cfg.Camunda.Enabled {
		var zeebeClient zbc.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebeClient.Close()
		zapLog.Info("Zeebe client connected successfully")

		if cfg.Workers[pt.TaskType].Enabled {
			handler := pt.NewHandler(
				&pt.Config{
					Timeout: config.GetDuration(cfg.Workers[pt.TaskType].Timeout),
				},
				processor, log,
			)
			startWorker(zeebeClient, pt.TaskType, cfg.Workers[pt.TaskType], handler.Handle, zapLog)
		}
	}

	// --- HTTP API Server ---
	checks := map[string]api.ReadinessChecker{
		"postgres": pg.Ping,
		"redis":    redisClient.Ping,
	}
	if esClient != nil {
		checks["elasticsearch"] = func(ctx context.Context) error { return esClient.Ping() }
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.NewHandler(processor, checks, log))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: router,
	}
	go func() {
		zapLog.Info("API server listening", zap.Int("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Metrics Server ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.Int("port", cfg.HTTP.MetricsPort))
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.HTTP.MetricsPort), nil); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("API server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Support copilot server stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
