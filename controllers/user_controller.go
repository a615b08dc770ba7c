package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/middleware"
	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

// UserController serves public profiles and the follow/unfollow actions.
type UserController struct {
	users        *services.UserService
	graph        *services.SocialGraph
	posts        *services.PostService
	postsPerPage int
}

// NewUserController creates a UserController.
func NewUserController(users *services.UserService, graph *services.SocialGraph, posts *services.PostService, postsPerPage int) *UserController {
	return &UserController{users: users, graph: graph, posts: posts, postsPerPage: postsPerPage}
}

// Profile returns a user's public profile with follower counts.
func (u *UserController) Profile(ctx *gin.Context) {
	user, ok := u.lookup(ctx)
	if !ok {
		return
	}
	rctx := ctx.Request.Context()
	followers, err := u.graph.FollowersCount(rctx, user.ID)
	if err != nil {
		respondError(ctx, err, 50050, "failed to count followers")
		return
	}
	following, err := u.graph.FollowingCount(rctx, user.ID)
	if err != nil {
		respondError(ctx, err, 50051, "failed to count following")
		return
	}

	payload := userSummary(*user, profileAvatarSize)
	payload["followers_count"] = followers
	payload["following_count"] = following
	utils.Success(ctx, payload)
}

// Posts lists a user's own posts.
func (u *UserController) Posts(ctx *gin.Context) {
	user, ok := u.lookup(ctx)
	if !ok {
		return
	}
	page, pageSize := parsePagination(ctx, u.postsPerPage)
	posts, total, err := u.posts.ListByUser(ctx.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		respondError(ctx, err, 50060, "failed to list user posts")
		return
	}
	utils.Success(ctx, gin.H{
		"items":      postsResponse(posts),
		"pagination": utils.NewPagination(page, pageSize, total),
	})
}

// Followers lists the accounts following a user.
func (u *UserController) Followers(ctx *gin.Context) {
	user, ok := u.lookup(ctx)
	if !ok {
		return
	}
	page, pageSize := parsePagination(ctx, u.postsPerPage)
	users, total, err := u.graph.Followers(ctx.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		respondError(ctx, err, 50052, "failed to list followers")
		return
	}
	u.respondUsers(ctx, users, utils.NewPagination(page, pageSize, total))
}

// Following lists the accounts a user follows.
func (u *UserController) Following(ctx *gin.Context) {
	user, ok := u.lookup(ctx)
	if !ok {
		return
	}
	page, pageSize := parsePagination(ctx, u.postsPerPage)
	users, total, err := u.graph.Following(ctx.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		respondError(ctx, err, 50053, "failed to list following")
		return
	}
	u.respondUsers(ctx, users, utils.NewPagination(page, pageSize, total))
}

// Follow makes the current user follow :username.
func (u *UserController) Follow(ctx *gin.Context) {
	me, target, ok := u.actors(ctx)
	if !ok {
		return
	}
	if me.ID == target.ID {
		utils.Error(ctx, http.StatusBadRequest, 40031, "you cannot follow yourself")
		return
	}
	if err := u.graph.Follow(ctx.Request.Context(), me.ID, target.ID); err != nil {
		respondError(ctx, err, 50054, "failed to follow user")
		return
	}
	utils.Success(ctx, gin.H{"following": true, "username": target.Username})
}

// Unfollow makes the current user stop following :username.
func (u *UserController) Unfollow(ctx *gin.Context) {
	me, target, ok := u.actors(ctx)
	if !ok {
		return
	}
	if me.ID == target.ID {
		utils.Error(ctx, http.StatusBadRequest, 40032, "you cannot unfollow yourself")
		return
	}
	if err := u.graph.Unfollow(ctx.Request.Context(), me.ID, target.ID); err != nil {
		respondError(ctx, err, 50055, "failed to unfollow user")
		return
	}
	utils.Success(ctx, gin.H{"following": false, "username": target.Username})
}

func (u *UserController) actors(ctx *gin.Context) (*models.User, *models.User, bool) {
	me, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return nil, nil, false
	}
	target, ok := u.lookup(ctx)
	if !ok {
		return nil, nil, false
	}
	return me, target, true
}

func (u *UserController) lookup(ctx *gin.Context) (*models.User, bool) {
	user, err := u.users.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		respondError(ctx, err, 50050, "failed to get user")
		return nil, false
	}
	return user, true
}

func (u *UserController) respondUsers(ctx *gin.Context, users []models.User, pagination utils.Pagination) {
	items := make([]gin.H, 0, len(users))
	for _, user := range users {
		items = append(items, userSummary(user, postAvatarSize))
	}
	utils.Success(ctx, gin.H{"items": items, "pagination": pagination})
}
