package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DBPath       string
	HistoryLimit int
	CORSOrigins  []string

	// Defaults for new sessions.
	EaveDefaultDistance float64 // mm
	EaveAutoGenerate    bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		DBPath:       getEnv("DB_PATH", "data/db/planner.db"),
		HistoryLimit: getEnvAsInt("HISTORY_LIMIT", 50),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		EaveDefaultDistance: getEnvAsFloat("EAVE_DEFAULT_DISTANCE", 600),
		EaveAutoGenerate:    getEnvAsBool("EAVE_AUTO_GENERATE", true),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma separated value, dropping empty items.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
