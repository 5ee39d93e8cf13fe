// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	CatalogSQLite = "sqlite"
	CatalogRemote = "remote"
)

type Config struct {
	Host            string
	Port            int
	DBPath          string
	CatalogSource   string
	CatalogSeedPath string

	MCPProxyURL    string
	MCPProxyAPIKey string
	CatalogServer  string

	KafkaBrokers    []string
	KafkaTopicAlert string

	LogLevel  string
	LogFormat string

	RequestTimeout   time.Duration
	BatchConcurrency int
}

// Load reads an optional .env file and then the process environment.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}
	return FromEnv()
}

func FromEnv() Config {
	source := strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSQLite))
	if source != CatalogRemote {
		source = CatalogSQLite
	}

	concurrency := getEnvInt("BATCH_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}
	timeoutSeconds := getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)
	if timeoutSeconds < 1 {
		timeoutSeconds = 30
	}

	return Config{
		Host:             getEnv("HTTP_HOST", "0.0.0.0"),
		Port:             getEnvInt("HTTP_PORT", 8080),
		DBPath:           getEnv("DB_PATH", "/data/dosage-safety.db"),
		CatalogSource:    source,
		CatalogSeedPath:  getEnv("CATALOG_SEED_PATH", ""),
		MCPProxyURL:      getEnv("MCP_PROXY_URL", "http://mcp-compose-http-proxy:9876"),
		MCPProxyAPIKey:   getEnv("MCP_PROXY_API_KEY", ""),
		CatalogServer:    getEnv("CATALOG_SERVER", "supplements"),
		KafkaBrokers:     getEnvList("KAFKA_BROKERS"),
		KafkaTopicAlert:  getEnv("KAFKA_TOPIC_ALERTS", "dosage.high-risk"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		RequestTimeout:   time.Duration(timeoutSeconds) * time.Second,
		BatchConcurrency: concurrency,
	}
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvList splits a comma separated value, dropping empty parts.
func getEnvList(key string) []string {
	parts := strings.Split(os.Getenv(key), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
