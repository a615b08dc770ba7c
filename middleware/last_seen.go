package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

// LastSeen stamps the authenticated user's last_seen before the handler runs.
// A failed update is logged and does not fail the request.
func LastSeen(users *services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, ok := CurrentUser(ctx); ok {
			if err := users.TouchLastSeen(ctx.Request.Context(), user); err != nil {
				utils.Sugar.Warnw("update last_seen failed", "user_id", user.ID, "err", err)
			}
		}
		ctx.Next()
	}
}
