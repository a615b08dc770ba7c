package config

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort string
	// SecretKey signs session and password reset tokens.
	SecretKey          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	PostsPerPage       int
	SessionTTLHours    int
	ResetTokenTTLSec   int
	MetricsEnabled     bool
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Redis for session revocation
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// ErrMissingSecret is returned by Load when no secret key is configured.
var ErrMissingSecret = errors.New("SECRET_KEY must be set in config or environment")

// Load reads the JSON file at path (when present), fills defaults and applies environment overrides.
// Precedence: JSON file -> defaults -> environment variable overrides.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	if err := loadJSONConfig(path, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if cfg.SecretKey == "" {
		return cfg, ErrMissingSecret
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	// Grouped sections; a flat file is read as if every key lived in every section.
	section := func(name string) map[string]any {
		if m, ok := raw[name].(map[string]any); ok {
			return m
		}
		return raw
	}

	app := section("app")
	out.AppPort = getString(app, "AppPort")
	out.SecretKey = getString(app, "SecretKey")
	out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
	out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
	out.PostsPerPage = getInt(app, "PostsPerPage")
	out.SessionTTLHours = getInt(app, "SessionTTLHours")
	out.ResetTokenTTLSec = getInt(app, "ResetTokenTTLSec")
	out.MetricsEnabled = getBool(app, "MetricsEnabled")

	db := section("database")
	out.DBDriver = getString(db, "Driver")
	out.DatabaseURI = getString(db, "DatabaseURI")
	out.DBHost = getString(db, "Host")
	out.DBPort = getString(db, "Port")
	out.DBUser = getString(db, "User")
	out.DBPassword = getString(db, "Password")
	out.DBName = getString(db, "Name")
	out.SQLitePath = getString(db, "SQLitePath")

	gin := section("gin")
	out.GinMode = getString(gin, "GinMode")
	out.GinPath = getString(gin, "GinPath")

	rd := section("redis")
	out.RedisHost = getString(rd, "RedisHost")
	out.RedisPort = getInt(rd, "RedisPort")
	out.RedisDB = getInt(rd, "RedisDB")
	out.RedisPassword = getString(rd, "RedisPassword")

	lg := section("log")
	out.LogLevel = getString(lg, "LogLevel")
	out.LogPath = getString(lg, "LogPath")
	out.LogMaxSizeMB = getInt(lg, "LogMaxSizeMB")
	out.LogMaxBackups = getInt(lg, "LogMaxBackups")
	out.LogMaxAgeDays = getInt(lg, "LogMaxAgeDays")
	out.LogCompress = getBool(lg, "LogCompress")

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 25
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 72
	}
	if c.ResetTokenTTLSec <= 0 {
		c.ResetTokenTTLSec = 600
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "microblog"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "microblog.db"
	}
	if c.RedisPort <= 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	var firstErr error
	atoi := func(key, val string) int {
		i, err := strconv.Atoi(val)
		if err != nil && firstErr == nil {
			firstErr = errors.New("invalid integer value for " + key + ": " + val)
		}
		return i
	}
	positive := func(key, val string) int {
		i := atoi(key, val)
		if i <= 0 && firstErr == nil {
			firstErr = errors.New(key + " must be a positive integer: " + val)
		}
		return i
	}

	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("SECRET_KEY", ""); v != "" {
		c.SecretKey = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = positive("RATE_LIMIT_PER_MINUTE", v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("POSTS_PER_PAGE", ""); v != "" {
		c.PostsPerPage = positive("POSTS_PER_PAGE", v)
	}
	if v := getEnv("SESSION_TTL_HOURS", ""); v != "" {
		c.SessionTTLHours = positive("SESSION_TTL_HOURS", v)
	}
	if v := getEnv("RESET_TOKEN_TTL_SECONDS", ""); v != "" {
		c.ResetTokenTTLSec = positive("RESET_TOKEN_TTL_SECONDS", v)
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		c.MetricsEnabled = v == "true"
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = positive("REDIS_PORT", v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = atoi("REDIS_DB", v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = atoi("LOG_MAX_SIZE_MB", v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = atoi("LOG_MAX_BACKUPS", v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = atoi("LOG_MAX_AGE_DAYS", v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	return firstErr
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
