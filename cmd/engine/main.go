// cmd/engine/main.go
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

	"matching-engine/internal/api"
	"matching-engine/internal/common/config"
	"matching-engine/internal/common/database"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/observability"
	"matching-engine/internal/control"
	"matching-engine/internal/engine/discovery"
	"matching-engine/internal/engine/events"
	"matching-engine/internal/engine/location"
	"matching-engine/internal/engine/matchcache"
	"matching-engine/internal/engine/prefs"
	"matching-engine/internal/engine/score"
	"matching-engine/internal/engine/swipe"
	"matching-engine/internal/notify"
	"matching-engine/internal/realtime"
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
			delay *= 2 // Exponential backoff
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

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting matching engine...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Matching Boundary Client ---
	boundary := api.NewClient(cfg.API.BaseURL, cfg.API.AuthToken, config.GetDuration(cfg.API.Timeout))

	// --- Core Engine Components ---
	dispatcher := events.NewDispatcher(log)

	cache := matchcache.NewCache(redis, log)
	cache.Restore(ctx)

	locations := location.NewCache(
		api.NewLocationProvider(boundary),
		redis,
		config.GetDuration(cfg.Engine.LocationTimeout),
		log,
	)

	preferences := prefs.NewStore(boundary, redis, log)
	if err := preferences.Load(ctx); err != nil {
		zapLog.Warn("preference load failed, starting with defaults", zap.Error(err))
	}

	scorer := score.NewEngine(log)
	coordinator := discovery.NewCoordinator(boundary, locations, scorer, cache, log)
	swipes := swipe.NewStateMachine(boundary, dispatcher, cache, log)

	// --- Push Notifications ---
	if cfg.Notifications.Push.Enabled {
		notifier, err := notify.NewSNSNotifier(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Push.TopicARN, log)
		if err != nil {
			zapLog.Fatal("sns notifier failed", zap.Error(err))
		}
		notifier.Subscribe(dispatcher)
		zapLog.Info("Push notifications enabled")
	}

	// --- Realtime Sync Channel ---
	channel := realtime.NewChannel(realtime.Options{
		URL:            cfg.Realtime.URL,
		AuthToken:      cfg.Realtime.AuthToken,
		ReconnectDelay: config.GetDuration(cfg.Realtime.ReconnectDelay),
		WriteTimeout:   config.GetDuration(cfg.Realtime.WriteTimeout),
	}, dispatcher, cache, log)
	channel.Start()

	zapLog.Info("Matching engine started")

	// --- Control, Health & Metrics Server ---
	mux := http.NewServeMux()
	ctrl := control.NewServer(coordinator, swipes, locations, preferences, boundary, boundary, cfg.Engine.DiscoveryLimit, log)
	ctrl.Routes(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		state := channel.State()
		status := http.StatusOK
		if state != events.StateReady && state != events.StateOpen {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ready",
			"channel": string(state),
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	go func() {
		addr := cfg.Metrics.GetMetricsAddr()
		zapLog.Info("Control server listening on " + addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			zapLog.Error("Control server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping engine...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	channel.Stop()

	if err := cache.Snapshot(shutdownCtx); err != nil {
		zapLog.Error("Error snapshotting match cache", zap.Error(err))
	}

	zapLog.Info("Matching engine stopped gracefully")
}
