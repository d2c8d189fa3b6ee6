package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries process-level knobs only. Runtime behavior the user edits
// from the dashboard (thresholds, keywords, sounds, refresh cadence) lives in
// the persisted Settings entity instead.
type Config struct {
	App         AppConfig
	Persistence PersistenceConfig
	Collector   CollectorConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	StaticDir          string
}

type PersistenceConfig struct {
	Driver   string // "file" or "redis"
	DataDir  string
	RedisURL string
}

type CollectorConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/stream.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			StaticDir:          getEnv("STATIC_DIR", "./public"),
		},
		Persistence: PersistenceConfig{
			Driver:   getEnv("PERSISTENCE_DRIVER", "file"),
			DataDir:  getEnv("DATA_DIR", "./data"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Collector: CollectorConfig{
			BaseURL:        getEnv("COLLECTOR_BASE_URL", "https://fallcent.com"),
			TimeoutSeconds: getEnvAsInt("COLLECTOR_TIMEOUT_SECONDS", 30),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
