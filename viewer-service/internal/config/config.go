package config

import (
	"os"
	"strconv"
)

type Config struct {
	KafkaBroker    string
	KafkaTopic     string
	GroupID        string
	Rows           int
	Columns        int
	Workers        int
	QueueSize      int
	HTTPPort       string
	MetricsPort    string
	PprofPort      string
	LogLevel       string
	PostgresDSN    string
	MigrationsPath string
}

func Load() Config {
	return Config{
		KafkaBroker:    getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "grid-updates"),
		GroupID:        getEnv("KAFKA_GROUP_ID", "view-server-group"),
		Rows:           getEnvInt("GRID_ROWS", 50),
		Columns:        getEnvInt("GRID_COLUMNS", 25),
		Workers:        getEnvInt("WORKERS", 4),
		QueueSize:      getEnvInt("QUEUE_SIZE", 1024),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		MetricsPort:    getEnv("METRICS_PORT", "8082"),
		PprofPort:      getEnv("PPROF_PORT", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
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
