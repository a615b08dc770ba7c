package testutil

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/microblog/config"
	"github.com/cppla/microblog/models"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Config returns an AppConfig suitable for router tests.
func Config() config.AppConfig {
	return config.AppConfig{
		SecretKey:          "test-secret",
		RateLimitPerMinute: 10000,
		AllowedOrigins:     []string{"*"},
		PostsPerPage:       25,
		SessionTTLHours:    1,
		ResetTokenTTLSec:   600,
		GinMode:            "test",
		LogLevel:           "error",
	}
}

// CreateUser inserts a user with password "secret" and email <username>@example.com.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := user.SetPassword("secret"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreatePost inserts a post by author at the given time.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, body string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Body: body, UserID: author.ID, Timestamp: at.UTC()}
	if err := db.Omit("Author").Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
