package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY",
	"STORE_DRIVER", "DATABASE_URL", "STORE_HTTP_TIMEOUT", "SERVER_PORT", "LOG_LEVEL",
	"CORS_ALLOWED_ORIGINS", "R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY",
	"R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL", "LOGO_KEY", "LOGO_FALLBACK_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverREST, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.StoreHTTPTimeout)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, DefaultLogoKey, cfg.LogoKey)
	assert.Equal(t, DefaultLogoFallbackURL, cfg.LogoFallbackURL)
	assert.Empty(t, cfg.SupabaseURL)
	assert.Contains(t, cfg.Warnings()[0], "SUPABASE_URL")
}

func TestLoad_MissingSecretsAreNotAnError(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SupabaseAnonKey)
}

func TestLoad_PublicPrefixFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon", cfg.SupabaseAnonKey)

	t.Setenv("SUPABASE_ANON_KEY", "server-side")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "server-side", cfg.SupabaseAnonKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/coforge")
	t.Setenv("STORE_HTTP_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://coforge.dev, https://www.coforge.dev ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.StoreHTTPTimeout)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://coforge.dev", "https://www.coforge.dev"}, cfg.AllowedOrigins)
	assert.NotContains(t, cfg.Warnings(), "DATABASE_URL is not set; registrations will fail with a configuration error")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":       "mongo",
		"STORE_HTTP_TIMEOUT": "soon",
		"SERVER_PORT":        "70000",
		"LOG_LEVEL":          "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestR2Configured(t *testing.T) {
	cfg := &Config{R2AccountID: "acc", R2AccessKeyID: "id", R2SecretAccessKey: "secret"}
	assert.False(t, cfg.R2Configured())
	cfg.R2BucketName = "assets"
	assert.True(t, cfg.R2Configured())
}

func TestInspectAccessKey(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "anon",
		"iss":  "supabase",
		"exp":  exp.Unix(),
	}).SignedString([]byte("not-the-real-secret"))
	require.NoError(t, err)

	info, err := InspectAccessKey(key)
	require.NoError(t, err)
	assert.Equal(t, "anon", info.Role)
	assert.Equal(t, "supabase", info.Issuer)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.True(t, info.Expired(time.Now()))
}

func TestInspectAccessKey_NotJWT(t *testing.T) {
	for _, key := range []string{"", "sb_publishable_abc123", "a.b.c"} {
		_, err := InspectAccessKey(key)
		assert.ErrorIs(t, err, ErrNotJWT, "key=%q", key)
	}
}

func TestKeyInfo_NoExpiry(t *testing.T) {
	assert.False(t, KeyInfo{}.Expired(time.Now()))
}
