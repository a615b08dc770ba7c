package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Column bounds shared with request validation.
const (
	UsernameMaxLen = 64
	EmailMaxLen    = 128
	AboutMeMaxLen  = 140
)

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"-"`
	PasswordHash string    `gorm:"size:256" json:"-"`
	AboutMe      string    `gorm:"size:140" json:"about_me"`
	LastSeen     time.Time `json:"last_seen"`
	Posts        []Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// TableName keeps the singular table name used by the existing schema.
func (User) TableName() string { return "user" }

// BeforeCreate defaults last_seen to the creation time.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.LastSeen.IsZero() {
		u.LastSeen = time.Now().UTC()
	}
	return nil
}

// SetPassword replaces the stored hash with a fresh salted hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Avatar returns the gravatar identicon URL for the user's email at the given pixel size.
func (u *User) Avatar(size int) string {
	digest := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/%x/?d=identicon&s=%d", digest, size)
}

func (u *User) String() string {
	return "<User: " + u.Username + ">"
}
