package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microblog/middleware"
	"github.com/cppla/microblog/models"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

// AuthController handles registration, login sessions, profile edits and password resets.
type AuthController struct {
	users     *services.UserService
	resets    *services.ResetTokens
	tokens    *utils.SessionTokens
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.UserService, resets *services.ResetTokens, tokens *utils.SessionTokens, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{users: users, resets: resets, tokens: tokens, blacklist: blacklist}
}

// Register creates a local account and logs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,max=64"`
		Email    string `json:"email" binding:"required,email,max=128"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.Register(ctx.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(ctx, err, 50002, "failed to create user")
		return
	}
	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	a.respondSession(ctx, user)
}

// Login verifies credentials and issues a session token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err, 50004, "failed to log in")
		return
	}
	a.respondSession(ctx, user)
}

func (a *AuthController) respondSession(ctx *gin.Context, user *models.User) {
	token, expiresAt, err := a.tokens.Issue(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       userSummary(*user, profileAvatarSize),
	})
}

// Logout revokes the presented session token until it expires.
func (a *AuthController) Logout(ctx *gin.Context) {
	claims, ok := middleware.CurrentClaims(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	if claims.ExpiresAt == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}
	if err := a.blacklist.Revoke(ctx.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		respondError(ctx, err, 50005, "failed to revoke token")
		return
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current user's profile including private fields.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	payload := userSummary(*user, profileAvatarSize)
	payload["email"] = user.Email
	utils.Success(ctx, payload)
}

// UpdateProfile changes the current user's username and about_me.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	var req struct {
		Username string `json:"username" binding:"required"`
		AboutMe  string `json:"about_me"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	if err := a.users.UpdateProfile(ctx.Request.Context(), user, req.Username, req.AboutMe); err != nil {
		respondError(ctx, err, 50031, "failed to update profile")
		return
	}
	utils.Success(ctx, userSummary(*user, profileAvatarSize))
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (a *AuthController) ResetPassword(ctx *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40009, "invalid request payload")
		return
	}

	user, err := a.resets.ResetPassword(ctx.Request.Context(), req.Token, req.Password)
	if err != nil {
		respondError(ctx, err, 50010, "failed to reset password")
		return
	}
	utils.Sugar.Infow("password reset", "user_id", user.ID)
	utils.Success(ctx, gin.H{"message": "your password has been reset"})
}
