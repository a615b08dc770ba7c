package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/utils"
)

// PostService creates posts and lists them outside of the follow feed.
type PostService struct {
	db      *gorm.DB
	metrics *utils.Metrics
}

// NewPostService creates a PostService. metrics may be nil.
func NewPostService(db *gorm.DB, metrics *utils.Metrics) *PostService {
	return &PostService{db: db, metrics: metrics}
}

// Create stores a new post by authorID. The body is stripped of markup and must be 1-140 characters.
func (s *PostService) Create(ctx context.Context, authorID uint, body string) (*models.Post, error) {
	body = utils.SanitizeText(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > models.PostBodyMaxLen {
		return nil, fmt.Errorf("%w: body must be 1-%d characters", ErrInvalidInput, models.PostBodyMaxLen)
	}

	post := &models.Post{Body: body, UserID: authorID}
	if err := s.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		utils.Sugar.Warnw("create post failed", "user_id", authorID, "err", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PostsCreated.Inc()
	}
	if err := s.db.WithContext(ctx).First(&post.Author, authorID).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Explore lists every post, newest first.
func (s *PostService) Explore(ctx context.Context, page, pageSize int) ([]models.Post, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&models.Post{}), page, pageSize)
}

// ListByUser lists the posts written by userID, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]models.Post, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID), page, pageSize)
}

// Count returns the number of posts.
func (s *PostService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

func (s *PostService) list(q *gorm.DB, page, pageSize int) ([]models.Post, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []models.Post
	err := paginate(q.Session(&gorm.Session{}).Preload("Author").Order("timestamp DESC").Order("id DESC"), page, pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
