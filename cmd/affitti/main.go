package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"affitti/internal/backend"
	"affitti/internal/cli"
	apphttp "affitti/internal/http"
	"affitti/internal/insight"
	applog "affitti/internal/log"
)

func main() {
	logger := cli.SetupLogger(applog.ComponentApp)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Data backend initialized", "backend", cfg.DataBackend)

	// AI insight is optional: without an API key the dashboard shows a
	// placeholder instead of the analysis.
	var gen apphttp.InsightGenerator
	if cfg.OpenAIAPIKey != "" {
		gen = insight.New(insight.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.InsightTimeout,
		})
		logger.Info("Insight generation enabled", "model", cfg.OpenAIModel)
	} else {
		logger.Info("Insight generation disabled - no OPENAI_API_KEY provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, result.Store, gen)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting affitti server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
