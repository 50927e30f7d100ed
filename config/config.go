package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	DefaultLogoKey         = "CYBRIAN.jpg"
	DefaultLogoFallbackURL = "https://placehold.co/96x96/2e2e4e/ffffff?text=CYBRIAN"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	SupabaseURL      string
	SupabaseAnonKey  string
	StoreDriver      string
	DatabaseURL      string
	StoreHTTPTimeout time.Duration

	ServerPort     int
	LogLevel       slog.Level
	AllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	LogoKey           string
	LogoFallbackURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
// Отсутствие секретов хранилища не ошибка: хранилище просто будет не готово.
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:       strings.TrimRight(firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"), "/"),
		SupabaseAnonKey:   firstEnv("SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"),
		StoreDriver:       strings.ToLower(envOr("STORE_DRIVER", DriverREST)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		LogoKey:           envOr("LOGO_KEY", DefaultLogoKey),
		LogoFallbackURL:   envOr("LOGO_FALLBACK_URL", DefaultLogoFallbackURL),
		AllowedOrigins:    splitList(envOr("CORS_ALLOWED_ORIGINS", "*")),
	}

	switch cfg.StoreDriver {
	case DriverREST, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be one of %q, %q, %q, got %q",
			DriverREST, DriverPostgres, DriverMemory, cfg.StoreDriver)
	}

	timeout, err := time.ParseDuration(envOr("STORE_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_HTTP_TIMEOUT environment variable: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("STORE_HTTP_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.StoreHTTPTimeout = timeout

	portStr := envOr("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if err := cfg.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	return cfg, nil
}

// Warnings lists missing settings that leave part of the service degraded.
func (c *Config) Warnings() []string {
	var w []string
	switch c.StoreDriver {
	case DriverREST:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			w = append(w, "SUPABASE_URL or SUPABASE_ANON_KEY is not set; registrations will fail with a configuration error")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			w = append(w, "DATABASE_URL is not set; registrations will fail with a configuration error")
		}
	case DriverMemory:
		w = append(w, "memory store selected; registrations are not persisted")
	}
	if !c.R2Configured() && c.R2PublicBaseURL == "" {
		w = append(w, "R2 is not configured; the logo falls back to LOGO_FALLBACK_URL")
	}
	return w
}

// R2Configured reports whether credentials for the asset bucket are present.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
