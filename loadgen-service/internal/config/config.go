package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	KafkaBroker string
	KafkaTopic  string
	GridID      string
	Compression string
	Rows        int
	Columns     int
	MinChanges  int
	MaxChanges  int
	MinSleep    time.Duration
	MaxSleep    time.Duration
	MaxAttempts int
	MetricsPort string
	PprofPort   string
	LogLevel    string
}

func Load() Config {
	return Config{
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "grid-updates"),
		GridID:      getEnv("GRID_ID", "user1_view1"),
		Compression: getEnv("KAFKA_COMPRESSION", "snappy"),
		Rows:        getEnvInt("GRID_ROWS", 50),
		Columns:     getEnvInt("GRID_COLUMNS", 25),
		MinChanges:  getEnvInt("MIN_CHANGES", 1),
		MaxChanges:  getEnvInt("MAX_CHANGES", 3),
		MinSleep:    getEnvDuration("MIN_SLEEP", 500*time.Millisecond),
		MaxSleep:    getEnvDuration("MAX_SLEEP", 2*time.Second),
		MaxAttempts: getEnvInt("PUBLISH_ATTEMPTS", 5),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
		PprofPort:   getEnv("PPROF_PORT", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
