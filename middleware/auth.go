package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

const (
	// ContextUserKey stores the authenticated *models.User inside Gin context.
	ContextUserKey = "current_user"
	// ContextClaimsKey stores the parsed *utils.SessionClaims.
	ContextClaimsKey = "session_claims"
)

// AuthRequired authenticates the bearer session token and loads its user through the session loader.
func AuthRequired(tokens *utils.SessionTokens, blacklist *utils.TokenBlacklist, users *services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		if blacklist.IsRevoked(ctx.Request.Context(), claims.ID) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		user, err := users.LoadUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			utils.Sugar.Errorw("session loader failed", "user_id", claims.UserID, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load user")
			ctx.Abort()
			return
		}
		if user == nil {
			utils.Error(ctx, http.StatusUnauthorized, 40106, "user no longer exists")
			ctx.Abort()
			return
		}

		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentClaims returns the session claims stored by AuthRequired.
func CurrentClaims(ctx *gin.Context) (*utils.SessionClaims, bool) {
	v, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.SessionClaims)
	return claims, ok
}
