// cmd/slideforge/main.go
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
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"slideforge/internal/common/config"
	"slideforge/internal/common/logger"
	"slideforge/internal/common/observability"
	"slideforge/internal/export"
	"slideforge/internal/llm"
	"slideforge/internal/pipeline"
	"slideforge/internal/watch"
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
	var (
		inputPath  = flag.String("input", "", "transcript file to process")
		watchMode  = flag.Bool("watch", false, "watch the drop folder for new transcripts")
		recursion  = flag.Bool("recursion", false, "enable verify-and-regenerate on every stage")
		listModels = flag.Bool("list-models", false, "list models available on the backend and exit")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting slideforge...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	zapLog.Info("Configuration loaded",
		zap.String("environment", cfg.App.Environment),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("externalAPI", cfg.LLM.UseExternalAPI),
	)

	if *recursion {
		cfg.Pipeline.Recursion = true
	}

	obs := observability.New("slideforge")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llm.NewClient(&llm.Config{
		OllamaURL:      cfg.LLM.OllamaURL,
		Model:          cfg.LLM.Model,
		UseExternalAPI: cfg.LLM.UseExternalAPI,
		ExternalAPIURL: cfg.LLM.ExternalAPIURL,
		ExternalAPIKey: cfg.LLM.ExternalAPIKey,
		Timeout:        time.Duration(cfg.LLM.Timeout) * time.Millisecond,
	}, log)

	err = retryWithBackoff(func() error {
		if !client.CheckHealth(ctx) {
			return fmt.Errorf("backend not reachable at %s", cfg.LLM.OllamaURL)
		}
		return nil
	}, 5, 2*time.Second, zapLog, "LLM backend health check")
	if err != nil {
		zapLog.Fatal("llm backend unavailable after retries", zap.Error(err))
	}
	zapLog.Info("LLM backend is healthy")

	if *listModels {
		models, err := client.ListModels(ctx)
		if err != nil {
			zapLog.Fatal("failed to list models", zap.Error(err))
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return
	}

	p := pipeline.New(&cfg.Pipeline, client, log, obs)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Address, zapLog)
	}

	processFile := func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}

		result, err := p.Run(ctx, string(data), pipeline.Options{
			Recursion:  cfg.Pipeline.Recursion,
			MaxRetries: cfg.Pipeline.MaxRetries,
			OnProgress: func(stage string, current, total int) {
				zapLog.Info("progress",
					zap.String("stage", stage),
					zap.Int("current", current),
					zap.Int("total", total),
				)
			},
		})
		if err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		written, err := export.WriteAll(result, cfg.Export.OutputDir, base, cfg.Export.Formats)
		if err != nil {
			return err
		}
		zapLog.Info("deck exported",
			zap.String("transcript", path),
			zap.Int("slides", len(result.Slides)),
			zap.Strings("outputs", written),
		)
		return nil
	}

	switch {
	case *watchMode:
		w, err := watch.New(cfg.Watch.InputDir, processFile, log, cfg.Watch.MaxConcurrent)
		if err != nil {
			zapLog.Fatal("failed to start watcher", zap.Error(err))
		}
		defer w.Stop()

		if err := w.Start(ctx); err != nil && err != context.Canceled {
			zapLog.Error("watcher exited", zap.Error(err))
		}
		zapLog.Info("Slideforge stopped gracefully")

	case *inputPath != "":
		if err := processFile(ctx, *inputPath); err != nil {
			zapLog.Fatal("pipeline run failed", zap.Error(err))
		}

	default:
		fmt.Fprintln(os.Stderr, "usage: slideforge -input <transcript> | -watch | -list-models")
		os.Exit(2)
	}
}

func serveMetrics(addr string, log *zap.Logger) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	http.Handle("/metrics", promhttp.Handler())
	log.Info("Health/Metrics server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error("Health/Metrics server failed", zap.Error(err))
	}
}
