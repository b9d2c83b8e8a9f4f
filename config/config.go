package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything read from the environment at startup.
// Per-user API credentials are NOT configured here — they arrive at
// runtime through the keystore.
type Config struct {
	Port            string
	GinMode         string
	FrontendURLs    []string
	JWTSecret       string
	MongoURI        string
	MongoDatabase   string
	LLMBaseURL      string
	LLMModel        string
	LLMTemperature  float64
	LLMMaxTokens    int
	SerperBaseURL   string
	HotelbedsURL    string
	HTTPTimeout     time.Duration
	LogLevel        string
	LogFormat       string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		FrontendURLs:   getEnvSlice("FRONTEND_URL", []string{"http://localhost:5173", "http://localhost:3000"}),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDatabase:  getEnv("MONGO_DATABASE", "wanderplan"),
		LLMBaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 4000),
		SerperBaseURL:  getEnv("SERPER_BASE_URL", "https://google.serper.dev"),
		HotelbedsURL:   getEnv("HOTELBEDS_BASE_URL", "https://api.test.hotelbeds.com"),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
