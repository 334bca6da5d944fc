package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabasePath        = "ofac_demo.db"
	defaultPort                = "10000"
	defaultProxyTimeoutSeconds = 10
)

type Config struct {
	// path to the read-only sanctions database file
	DatabasePath string

	// HTTP listen port
	Port string

	// base URL the MCP tool proxy uses to reach the REST API
	BaseURL string

	// outbound request timeout for the tool proxy, in seconds
	ProxyTimeoutSeconds int

	// CORS allowed origins
	AllowedOrigins []string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	port := getEnvOrDefault("PORT", defaultPort)

	baseURL := strings.TrimRight(getEnvOrDefault("BASE_URL", "http://localhost:"+port), "/")

	origins := []string{}
	for _, o := range strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "*"), ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	cfg := Config{
		DatabasePath:        getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		Port:                port,
		BaseURL:             baseURL,
		ProxyTimeoutSeconds: getEnvIntOrDefault("PROXY_TIMEOUT_SECONDS", defaultProxyTimeoutSeconds),
		AllowedOrigins:      origins,
	}

	return cfg, nil
}
