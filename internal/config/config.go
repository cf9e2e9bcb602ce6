package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Sink names.
const (
	SinkKafka = "kafka"
	SinkCSV   = "csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	InputDir     string
	InputPattern string
	DoneDir      string
	PollInterval time.Duration
	SkipNoData   bool

	Sink      string
	CSVOutput string

	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	pollInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("POLL_INTERVAL", "30s"))
	if err != nil || pollInterval <= 0 {
		return nil, errors.New("invalid POLL_INTERVAL")
	}

	skipNoData, err := parseBool("SKIP_NO_DATA", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputDir:     sharedcfg.EnvOrDefault("INPUT_DIR", "./data/xmrg"),
		InputPattern: sharedcfg.EnvOrDefault("INPUT_PATTERN", "xmrg*"),
		DoneDir:      os.Getenv("DONE_DIR"),
		PollInterval: pollInterval,
		SkipNoData:   skipNoData,

		Sink:      sharedcfg.EnvOrDefault("SINK", SinkKafka),
		CSVOutput: sharedcfg.EnvOrDefault("CSV_OUTPUT", "-"),

		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "hrap-precipitation"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.InputDir == "" {
		return nil, errors.New("INPUT_DIR is required")
	}
	switch cfg.Sink {
	case SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	case SinkCSV:
		if cfg.CSVOutput == "" {
			return nil, errors.New("CSV_OUTPUT is required")
		}
	default:
		return nil, fmt.Errorf("invalid SINK %q: want %q or %q", cfg.Sink, SinkKafka, SinkCSV)
	}

	return cfg, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
