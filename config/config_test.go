package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	require.Equal(t, "s3cret", cfg.SecretKey)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, 25, cfg.PostsPerPage)
	require.Equal(t, 600, cfg.ResetTokenTTLSec)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Equal(t, 6379, cfg.RedisPort)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_GroupedFile(t *testing.T) {
	path := writeConfig(t, `{
		"app": {"AppPort": "9000", "SecretKey": "from-file", "PostsPerPage": 10, "AllowedOrigins": ["https://a.example"], "MetricsEnabled": true},
		"database": {"Driver": "sqlite", "SQLitePath": "blog.db"},
		"redis": {"RedisHost": "cache", "RedisDB": 2},
		"log": {"LogLevel": "debug", "LogCompress": true}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.AppPort)
	require.Equal(t, "from-file", cfg.SecretKey)
	require.Equal(t, 10, cfg.PostsPerPage)
	require.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
	require.True(t, cfg.MetricsEnabled)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "blog.db", cfg.SQLitePath)
	require.Equal(t, "cache", cfg.RedisHost)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.LogCompress)
}

func TestLoad_FlatFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"SecretKey": "flat", "AppPort": "7000", "Driver": "sqlite"}`)
	t.Setenv("APP_PORT", "7001")
	t.Setenv("POSTS_PER_PAGE", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_DRIVER", "MySQL")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "flat", cfg.SecretKey)
	require.Equal(t, "7001", cfg.AppPort)
	require.Equal(t, 5, cfg.PostsPerPage)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, "mysql", cfg.DBDriver)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, `{not json`))
	require.Error(t, err)

	t.Setenv("SECRET_KEY", "x")
	t.Setenv("REDIS_PORT", "abc")
	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "REDIS_PORT")
}

func TestInitDatabase_SQLite(t *testing.T) {
	cfg := AppConfig{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "blog.db"), LogLevel: "silent"}
	db, err := InitDatabase(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, table := range []string{"user", "post", "followers"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}

	_, err = InitDatabase(AppConfig{DBDriver: "oracle"})
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestLoad_RejectsNonPositiveEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "x")
	for _, key := range []string{"POSTS_PER_PAGE", "SESSION_TTL_HOURS", "RESET_TOKEN_TTL_SECONDS", "RATE_LIMIT_PER_MINUTE"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0")
			_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
			require.ErrorContains(t, err, key)

			t.Setenv(key, "-3")
			_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
			require.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_NonPositiveFileValuesFallBackToDefaults(t *testing.T) {
	path := writeConfig(t, `{"SecretKey": "s", "PostsPerPage": -1, "SessionTTLHours": 0, "ResetTokenTTLSec": -5, "RateLimitPerMinute": -2}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 25, cfg.PostsPerPage)
	require.Equal(t, 72, cfg.SessionTTLHours)
	require.Equal(t, 600, cfg.ResetTokenTTLSec)
	require.Equal(t, 60, cfg.RateLimitPerMinute)
}
