package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

const (
	profileAvatarSize = 128
	postAvatarSize    = 36
	maxPageSize       = 100
)

// parsePagination reads page and page_size, falling back to defaultSize.
func parsePagination(ctx *gin.Context, defaultSize int) (int, int) {
	page := 1
	pageSize := defaultSize
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(ctx.Query("page_size")); err == nil && s > 0 && s <= maxPageSize {
		pageSize = s
	}
	return page, pageSize
}

// respondError maps service errors onto the response envelope. Anything unrecognised is a
// persistence failure and becomes a 500 with fallbackCode.
func respondError(ctx *gin.Context, err error, fallbackCode int, fallbackMsg string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, 40002, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		utils.Error(ctx, http.StatusConflict, 40902, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(ctx, http.StatusUnauthorized, 40107, err.Error())
	case errors.Is(err, services.ErrInvalidResetToken):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	default:
		utils.Sugar.Errorw(fallbackMsg, "path", ctx.FullPath(), "err", err)
		utils.Error(ctx, http.StatusInternalServerError, fallbackCode, fallbackMsg)
	}
}

func userSummary(user models.User, avatarSize int) gin.H {
	return gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"about_me":  user.AboutMe,
		"last_seen": user.LastSeen,
		"avatar":    user.Avatar(avatarSize),
	}
}

func postsResponse(posts []models.Post) []gin.H {
	items := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		items = append(items, postResponse(p))
	}
	return items
}

func postResponse(p models.Post) gin.H {
	return gin.H{
		"id":        p.ID,
		"body":      p.Body,
		"timestamp": p.Timestamp,
		"author":    userSummary(p.Author, postAvatarSize),
	}
}
