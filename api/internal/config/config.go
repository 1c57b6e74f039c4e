package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once at startup and never mutated afterwards.
// Every client gets the values it needs injected at construction time.
type Config struct {
	Port string

	// PlantNet identification
	PlantNetAPIKey  string
	PlantNetBaseURL string
	Lang            string

	// Care enrichment
	CareProvider    string // "gemini" | "perenual"
	GeminiAPIKey    string
	GeminiModel     string
	PerenualAPIKey  string
	PerenualBaseURL string

	// Pipeline tuning
	ConfidenceThreshold float64
	CareMaxAttempts     int
	CareBackoff         time.Duration

	// Auth / users (user routes are disabled without a DSN)
	JWTSecret   string
	DatabaseURL string

	// Telegram front-end
	TelegramBotToken string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("bad float in env %s=%q, using default %v", k, v, def)
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("bad int in env %s=%q, using default %v", k, v, def)
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		PlantNetAPIKey:  mustEnv("PLANTNET_API_KEY"),
		PlantNetBaseURL: getEnv("PLANTNET_BASE_URL", "https://my-api.plantnet.org/v2"),
		Lang:            getEnv("LANG_CODE", "id"),

		CareProvider:    getEnv("CARE_PROVIDER", "gemini"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		PerenualAPIKey:  getEnv("PERENUAL_API_KEY", ""),
		PerenualBaseURL: getEnv("PERENUAL_BASE_URL", "https://perenual.com/api"),

		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.15),
		CareMaxAttempts:     getEnvInt("CARE_MAX_ATTEMPTS", 3),
		CareBackoff:         time.Duration(getEnvInt("CARE_BACKOFF_MS", 1000)) * time.Millisecond,

		JWTSecret:   getEnv("JWT_SECRET", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}
}
