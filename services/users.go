package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/utils"
)

// UserService owns account records: registration, credentials, profile and the session loader.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account after checking that username and email are unused.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email == "" || utf8.RuneCountInString(email) > models.EmailMaxLen || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email must be a valid address of at most %d characters", ErrInvalidInput, models.EmailMaxLen)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if taken, err := s.exists(ctx, "username = ?", username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.exists(ctx, "email = ?", email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	user := &models.User{Username: username, Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		utils.Sugar.Warnw("create user failed", "username", username, "err", err)
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user whose username and password match.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// LoadUser is the session loader: it returns the user stored under id, or nil when there is none.
func (s *UserService) LoadUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns ErrUserNotFound when no user has that name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes username and about_me. The username is only checked for collisions when it changes.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, username, aboutMe string) error {
	username = strings.TrimSpace(username)
	aboutMe = utils.SanitizeText(aboutMe)
	if err := validateUsername(username); err != nil {
		return err
	}
	if utf8.RuneCountInString(aboutMe) > models.AboutMeMaxLen {
		return fmt.Errorf("%w: about_me must be at most %d characters", ErrInvalidInput, models.AboutMeMaxLen)
	}
	if username != user.Username {
		taken, err := s.exists(ctx, "username = ?", username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
	}

	err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"username": username,
		"about_me": aboutMe,
	}).Error
	if err != nil {
		return err
	}
	user.Username = username
	user.AboutMe = aboutMe
	return nil
}

// ChangePassword stores a new hash for user.
func (s *UserService) ChangePassword(ctx context.Context, user *models.User, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.db.WithContext(ctx).Model(user).Update("password_hash", user.PasswordHash).Error
}

// TouchLastSeen stamps last_seen with the current time.
func (s *UserService) TouchLastSeen(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(user).Update("last_seen", now).Error; err != nil {
		return err
	}
	user.LastSeen = now
	return nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (s *UserService) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Count(&n).Error
	return n > 0, err
}

func validateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > models.UsernameMaxLen {
		return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, models.UsernameMaxLen)
	}
	return nil
}
