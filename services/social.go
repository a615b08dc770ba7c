package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/utils"
)

// SocialGraph answers follower/following questions and composes feeds from the followers edge table.
// Every call goes to the database; nothing is cached.
type SocialGraph struct {
	db      *gorm.DB
	metrics *utils.Metrics
}

// NewSocialGraph creates a SocialGraph. metrics may be nil.
func NewSocialGraph(db *gorm.DB, metrics *utils.Metrics) *SocialGraph {
	return &SocialGraph{db: db, metrics: metrics}
}

// Follow records followerID -> followedID unless the edge already exists.
// Two concurrent calls may both see the edge as absent; the loser fails on the primary key.
func (g *SocialGraph) Follow(ctx context.Context, followerID, followedID uint) error {
	exists, err := g.IsFollowing(ctx, followerID, followedID)
	if err != nil || exists {
		return err
	}
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := g.db.WithContext(ctx).Omit("Follower", "Followed").Create(&edge).Error; err != nil {
		utils.Sugar.Warnw("follow failed", "follower_id", followerID, "followed_id", followedID, "err", err)
		return err
	}
	g.count("follow")
	return nil
}

// Unfollow removes followerID -> followedID if present.
func (g *SocialGraph) Unfollow(ctx context.Context, followerID, followedID uint) error {
	exists, err := g.IsFollowing(ctx, followerID, followedID)
	if err != nil || !exists {
		return err
	}
	err = g.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		utils.Sugar.Warnw("unfollow failed", "follower_id", followerID, "followed_id", followedID, "err", err)
		return err
	}
	g.count("unfollow")
	return nil
}

// IsFollowing reports whether the edge followerID -> followedID exists.
func (g *SocialGraph) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	return n > 0, err
}

// FollowersCount counts the users following userID.
func (g *SocialGraph) FollowersCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, err
}

// FollowingCount counts the users userID follows.
func (g *SocialGraph) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// EdgeCount returns the total number of follow edges.
func (g *SocialGraph) EdgeCount(ctx context.Context) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Count(&n).Error
	return n, err
}

// Followers returns one page of the users following userID ordered by username, with the total count.
// pageSize <= 0 returns every follower.
func (g *SocialGraph) Followers(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error) {
	q := g.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN followers ON followers.follower_id = `user`.`id`").
		Where("followers.followed_id = ?", userID)
	return g.users(q, page, pageSize)
}

// Following returns one page of the users userID follows ordered by username, with the total count.
// pageSize <= 0 returns every followed user.
func (g *SocialGraph) Following(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error) {
	q := g.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN followers ON followers.followed_id = `user`.`id`").
		Where("followers.follower_id = ?", userID)
	return g.users(q, page, pageSize)
}

func (g *SocialGraph) users(q *gorm.DB, page, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := paginate(q.Session(&gorm.Session{}).Order("`user`.`username`").Order("`user`.`id`"), page, pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FollowingPosts returns one page of userID's feed: posts written by userID or by anyone userID follows,
// newest first, each post once. total counts the whole feed. pageSize <= 0 returns every post.
func (g *SocialGraph) FollowingPosts(ctx context.Context, userID uint, page, pageSize int) ([]models.Post, int64, error) {
	var total int64
	if err := g.feed(ctx, userID).Distinct("post.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := g.feed(ctx, userID).
		Select("post.*").
		Group("post.id").
		Order("post.timestamp DESC").
		Order("post.id DESC").
		Preload("Author")
	q = paginate(q, page, pageSize)

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// feed selects posts whose author is userID or has userID among its followers.
func (g *SocialGraph) feed(ctx context.Context, userID uint) *gorm.DB {
	return g.db.WithContext(ctx).Model(&models.Post{}).
		Joins("LEFT JOIN followers ON followers.followed_id = post.user_id").
		Where("followers.follower_id = ? OR post.user_id = ?", userID, userID)
}

func (g *SocialGraph) count(action string) {
	if g.metrics != nil {
		g.metrics.FollowEvents.WithLabelValues(action).Inc()
	}
}

func paginate(q *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return q
	}
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * pageSize).Limit(pageSize)
}
