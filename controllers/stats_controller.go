package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

// StatsController reports site wide counts.
type StatsController struct {
	users *services.UserService
	posts *services.PostService
	graph *services.SocialGraph
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(users *services.UserService, posts *services.PostService, graph *services.SocialGraph) *StatsController {
	return &StatsController{users: users, posts: posts, graph: graph}
}

// GetStats returns user, post and follow edge counts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	userCount, err := s.users.Count(rctx)
	if err != nil {
		respondError(ctx, err, 50070, "failed to count users")
		return
	}
	postCount, err := s.posts.Count(rctx)
	if err != nil {
		respondError(ctx, err, 50071, "failed to count posts")
		return
	}
	followCount, err := s.graph.EdgeCount(rctx)
	if err != nil {
		respondError(ctx, err, 50072, "failed to count follows")
		return
	}

	utils.Success(ctx, gin.H{
		"user_count":   userCount,
		"post_count":   postCount,
		"follow_count": followCount,
	})
}
