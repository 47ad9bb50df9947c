// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"iaq-workers/internal/common/aws"
	"iaq-workers/internal/common/cache"
	"iaq-workers/internal/common/camunda"
	"iaq-workers/internal/common/config"
	"iaq-workers/internal/common/logger"
	"iaq-workers/internal/common/observability"
	"iaq-workers/internal/iaq"

	biq "iaq-workers/internal/workers/assessment/build-iaq-report"
	eir "iaq-workers/internal/workers/assessment/evaluate-iaq-risk"
	nia "iaq-workers/internal/workers/assessment/notify-iaq-assessment"
	vis "iaq-workers/internal/workers/assessment/validate-iaq-survey"
)

// registration binds a task type to the constructor of its handler.
type registration struct {
	taskType string
	build    func() (camunda.JobHandler, error)
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func(context.Context) error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(ctx); err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	boot := logger.New("info", "console", "stdout")
	defer boot.Sync()

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger.NewZapAdapter(zapLog)); err != nil {
		zapLog.Fatal("worker manager failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting worker manager...", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			log.Error("observability shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	profiles, err := cfg.Assessment.Registry()
	if err != nil {
		return fmt.Errorf("assessment profiles: %w", err)
	}
	log.Info("scoring profiles loaded", map[string]interface{}{
		"profiles": profiles.Names(),
		"default":  cfg.Assessment.DefaultProfile,
	})

	// --- Init Zeebe Client with retry ---
	client, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		return fmt.Errorf("zeebe: %w", err)
	}
	defer client.Close()
	log.Info("Zeebe client connected successfully", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	deps, closeDeps, err := notificationDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDeps()

	workers := make([]*camunda.CamundaWorker, 0, 4)
	for _, reg := range registrations(cfg, profiles, deps, log) {
		if !config.IsWorkerEnabled(cfg, reg.taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": reg.taskType})
			continue
		}
		handler, err := reg.build()
		if err != nil {
			return fmt.Errorf("%s: %w", reg.taskType, err)
		}
		workers = append(workers, camunda.NewWorker(
			client.GetClient(), reg.taskType, config.GetWorkerConfig(cfg, reg.taskType), handler, obs, log))
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	server := newServer(cfg.Server.Address, client.HealthCheck, log)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		serverErr <- listen(server)
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received, stopping workers...", nil)
	case err := <-serverErr:
		log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
	}

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Health/Metrics server shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("Worker manager stopped", nil)
	return nil
}

// notificationDeps connects Redis and AWS when any notification channel is
// enabled. The returned func closes whatever was opened.
func notificationDeps(ctx context.Context, cfg *config.Config, log logger.Logger) (nia.Dependencies, func(), error) {
	var deps nia.Dependencies
	if !cfg.Notifications.Enabled() {
		return deps, func() {}, nil
	}

	redis := cache.NewRedis(cfg.Redis)
	if err := retryWithBackoff(ctx, redis.Ping, 10, 2*time.Second, log, "Redis connection"); err != nil {
		_ = redis.Close()
		return deps, nil, err
	}
	log.Info("Redis connected successfully", nil)
	deps.Dedupe = redis

	awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		_ = redis.Close()
		return deps, nil, err
	}
	if cfg.Notifications.Email.Enabled {
		deps.Email = aws.NewSESClient(awsCfg)
	}
	if cfg.Notifications.SMS.Enabled {
		deps.SMS = aws.NewSNSClient(awsCfg)
	}

	return deps, func() { _ = redis.Close() }, nil
}

func registrations(cfg *config.Config, profiles *iaq.Registry, deps nia.Dependencies, log logger.Logger) []registration {
	return []registration{
		{vis.TaskType, func() (camunda.JobHandler, error) {
			return vis.NewHandler(vis.NewConfig(cfg), profiles, log)
		}},
		{eir.TaskType, func() (camunda.JobHandler, error) {
			return eir.NewHandler(eir.NewConfig(cfg), profiles, log)
		}},
		{biq.TaskType, func() (camunda.JobHandler, error) {
			return biq.NewHandler(biq.NewConfig(cfg), profiles, log)
		}},
		{nia.TaskType, func() (camunda.JobHandler, error) {
			return nia.NewHandler(nia.NewConfig(cfg), deps, log)
		}},
	}
}
