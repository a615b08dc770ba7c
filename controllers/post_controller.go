package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/middleware"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

// PostController handles post submission, the explore listing and the follow feed.
type PostController struct {
	posts        *services.PostService
	graph        *services.SocialGraph
	postsPerPage int
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService, graph *services.SocialGraph, postsPerPage int) *PostController {
	return &PostController{posts: posts, graph: graph, postsPerPage: postsPerPage}
}

// CreatePost publishes a post as the current user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), user.ID, req.Body)
	if err != nil {
		respondError(ctx, err, 50020, "failed to create post")
		return
	}
	utils.Success(ctx, gin.H{"post": postResponse(*post)})
}

// Explore lists every post, newest first.
func (p *PostController) Explore(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx, p.postsPerPage)
	posts, total, err := p.posts.Explore(ctx.Request.Context(), page, pageSize)
	if err != nil {
		respondError(ctx, err, 50022, "failed to list posts")
		return
	}
	utils.Success(ctx, gin.H{
		"items":      postsResponse(posts),
		"pagination": utils.NewPagination(page, pageSize, total),
	})
}

// Feed lists posts by the current user and everyone they follow, newest first.
func (p *PostController) Feed(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx, p.postsPerPage)
	posts, total, err := p.graph.FollowingPosts(ctx.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		respondError(ctx, err, 50023, "failed to load feed")
		return
	}
	utils.Success(ctx, gin.H{
		"items":      postsResponse(posts),
		"pagination": utils.NewPagination(page, pageSize, total),
	})
}
