package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Pipeline defaults, overridable per granule set.
	SampleStep     int
	MatchTolerance float64

	// Redis snapshot store configuration (feature-flagged via REDIS_ADDR /
	// REDIS_ENABLED).
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisEnabled     bool
	RedisSnapshotTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	snapshotTTL, err := parseDuration("REDIS_SNAPSHOT_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}
	sampleStep, err := parseInt("SAMPLE_STEP", 20)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	tolerance, err := parseFloat("MATCH_TOLERANCE", 0.01)
	if err != nil {
		return nil, err
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	redisEnabled := redisAddr != ""
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		redisEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "decoded-granule-sets"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "smoke-threat-assessments"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "smoke-threat-etl"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		SampleStep:         sampleStep,
		MatchTolerance:     tolerance,

		RedisAddr:        redisAddr,
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		RedisEnabled:     redisEnabled,
		RedisSnapshotTTL: snapshotTTL,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.SampleStep < 1 {
		return nil, errors.New("SAMPLE_STEP must be >= 1")
	}
	if cfg.MatchTolerance <= 0 {
		return nil, errors.New("MATCH_TOLERANCE must be > 0")
	}
	if cfg.RedisEnabled && cfg.RedisAddr == "" {
		return nil, errors.New("REDIS_ENABLED is true but REDIS_ADDR is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}
