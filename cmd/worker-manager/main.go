// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"

	"termsheet-workers/internal/common/aws"
	"termsheet-workers/internal/common/cache"
	"termsheet-workers/internal/common/camunda"
	"termsheet-workers/internal/common/config"
	commonerrors "termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/common/observability"
	"termsheet-workers/internal/intake"
	"termsheet-workers/internal/termsheet"
	"termsheet-workers/pkg/registry"

	edt "termsheet-workers/internal/workers/termsheet/extract-document-text"
	evr "termsheet-workers/internal/workers/termsheet/export-validation-report"
	gsr "termsheet-workers/internal/workers/termsheet/generate-sample-report"
	nvo "termsheet-workers/internal/workers/termsheet/notify-validation-outcome"
	vts "termsheet-workers/internal/workers/termsheet/validate-term-sheet"
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, zapLog)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Rule table ---
	rules, err := termsheet.LoadRuleTable(cfg.Validation.RulesPath)
	if err != nil {
		zapLog.Fatal("rule table load failed", zap.Error(commonerrors.NewRulesLoadFailedError(cfg.Validation.RulesPath, err)))
	}
	zapLog.Info("Rule table loaded",
		zap.String("path", cfg.Validation.RulesPath),
		zap.Int("rules", rules.Len()),
		zap.Int("required", rules.RequiredCount()),
	)

	// --- Zeebe with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Redis text cache (optional) ---
	var extractor intake.Extractor = intake.NewMockExtractor(
		intake.WithDelay(termsheet.FixedDelay(config.GetDuration(cfg.Intake.DelayMs))),
		intake.WithMaxBytes(cfg.Intake.MaxDocumentBytes),
		intake.WithLogger(log),
	)
	probes := []probe{{name: "zeebe", check: zeebe.HealthCheck}}

	if cfg.Redis.Address != "" {
		rdb := cache.NewRedis(cfg.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, intake cache disabled", zap.Error(err))
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			ttl := time.Duration(cfg.Intake.CacheTTLSeconds) * time.Second
			extractor = intake.NewCachedExtractor(extractor, rdb, ttl, log)
			probes = append(probes, probe{name: "redis", check: rdb.Ping})
			zapLog.Info("Redis connected successfully", zap.Duration("cacheTTL", ttl))
		}
	}

	// --- Notification channels ---
	notifyOpts := nvo.HandlerOptions{AppConfig: cfg, Logger: log, Observability: obs}
	if cfg.Notifications.SNS.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		notifyOpts.SNS = client
	}
	if cfg.Notifications.Email.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		notifyOpts.SES = client
	}

	// --- Handlers ---
	extractHandler, err := edt.NewHandler(edt.HandlerOptions{
		AppConfig: cfg, Logger: log, Extractor: extractor, Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create extract-document-text handler", zap.Error(err))
	}
	validateHandler, err := vts.NewHandler(vts.HandlerOptions{
		AppConfig: cfg, Logger: log, Rules: rules, Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create validate-term-sheet handler", zap.Error(err))
	}
	exportHandler, err := evr.NewHandler(evr.HandlerOptions{
		AppConfig: cfg, Logger: log, Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create export-validation-report handler", zap.Error(err))
	}
	notifyHandler, err := nvo.NewHandler(notifyOpts)
	if err != nil {
		zapLog.Fatal("failed to create notify-validation-outcome handler", zap.Error(err))
	}
	sampleHandler, err := gsr.NewHandler(gsr.HandlerOptions{AppConfig: cfg, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create generate-sample-report handler", zap.Error(err))
	}

	handlers := map[string]camunda.JobHandler{
		edt.WorkerName: extractHandler,
		vts.WorkerName: validateHandler,
		evr.WorkerName: exportHandler,
		nvo.WorkerName: notifyHandler,
		gsr.WorkerName: sampleHandler,
	}

	checkRegistry(cfg.Registry.Path, handlers, zapLog)

	// --- Start workers ---
	group := camunda.NewWorkerGroup(zeebe.GetClient(), zapLog)
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		group.Start(handlers[name], config.GetWorkerConfig(cfg, name))
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", group.Running()))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newMux(probes, group.Running),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	group.Stop()

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about handlers the activity registry does not describe.
// A missing or invalid registry is not fatal.
func checkRegistry(path string, handlers map[string]camunda.JobHandler, log *zap.Logger) {
	if path == "" {
		return
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}

	taskTypes := make([]string, 0, len(handlers))
	for _, h := range handlers {
		taskTypes = append(taskTypes, h.GetTaskType())
	}
	sort.Strings(taskTypes)
	if missing := reg.Missing(taskTypes); len(missing) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
	}
}
