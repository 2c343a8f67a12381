package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lexiqai/kokoro-tts-mcp/internal/config"
	"github.com/lexiqai/kokoro-tts-mcp/internal/mcpserver"
	"github.com/lexiqai/kokoro-tts-mcp/internal/observability"
	"github.com/lexiqai/kokoro-tts-mcp/internal/speech"
	"github.com/lexiqai/kokoro-tts-mcp/internal/storage"
	"github.com/lexiqai/kokoro-tts-mcp/internal/tts"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	if err := cfg.EnsureOutputDir(); err != nil {
		logger.Fatal().Err(err).Msg("Output directory unavailable")
	}

	writer, err := storage.NewAudioWriter(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Output directory unavailable")
	}
	client := tts.NewKokoroClient(cfg.KokoroBaseURL, &http.Client{})
	svc := speech.NewService(cfg, client, writer)

	server, err := mcpserver.New(svc, cfg, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build MCP server")
	}

	logger.Info().
		Str("version", version).
		Str("base_url", client.BaseURL()).
		Str("output_dir", writer.Dir()).
		Str("default_voice", cfg.DefaultVoice).
		Float64("default_speed", cfg.DefaultSpeed).
		Str("transport", cfg.Transport).
		Msg("Kokoro TTS MCP server starting")

	// Stop on interrupt; the stdio transport also ends when stdin closes
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case "http":
		err = serveHTTP(ctx, cfg, server, svc, logger)
	default:
		err = server.Run(ctx, &mcp.StdioTransport{})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Server failed")
	}

	logger.Info().Msg("Server exited gracefully")
}

// serveHTTP runs the streamable HTTP transport next to health and metrics endpoints
func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server, svc *speech.Service, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.HTTPHandler(server))
	mux.HandleFunc("/health", observability.HealthCheckHandler(version))
	mux.HandleFunc("/ready", observability.ReadinessHandler(version, cfg.ProbeTimeoutDuration(),
		map[string]observability.HealthCheckFunc{"kokoro": svc.Ready}))

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// Write timeout must cover a full synthesis round trip
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("http://localhost:%s/mcp", cfg.Port)).
			Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
