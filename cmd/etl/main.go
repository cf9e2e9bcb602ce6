package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/xmrg-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/xmrg-etl/internal/adapter/filesystem"
	httpadapter "github.com/couchcryptid/xmrg-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/xmrg-etl/internal/adapter/kafka"
	"github.com/couchcryptid/xmrg-etl/internal/config"
	"github.com/couchcryptid/xmrg-etl/internal/observability"
	"github.com/couchcryptid/xmrg-etl/internal/pipeline"
)

type sink interface {
	pipeline.BatchLoader
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	scanner, err := filesystem.NewScanner(cfg.InputDir, cfg.InputPattern, cfg.DoneDir, logger)
	if err != nil {
		logger.Error("failed to create scanner", "error", err)
		os.Exit(1)
	}

	var writer sink
	switch cfg.Sink {
	case config.SinkCSV:
		writer, err = csvfile.NewWriter(cfg.CSVOutput)
		if err != nil {
			logger.Error("failed to open csv output", "error", err)
			os.Exit(1)
		}
		logger.Info("csv sink enabled", "output", cfg.CSVOutput)
	default:
		writer = kafkaadapter.NewWriter(cfg, logger)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	decoder := pipeline.NewDecoder(logger)

	p := pipeline.New(scanner, decoder, writer, logger, metrics, pipeline.Options{
		BatchSize:    cfg.BatchSize,
		PollInterval: cfg.PollInterval,
		SkipNoData:   cfg.SkipNoData,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if err := writer.Close(); err != nil {
		logger.Error("sink close error", "error", err)
	}

	logger.Info("shutdown complete")
}
