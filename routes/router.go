package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/microblog/config"
	"github.com/cppla/microblog/controllers"
	"github.com/cppla/microblog/middleware"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

// SetupRouter wires routes, middlewares, and controllers. rc may be nil.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, rc *redis.Client) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; fall back to plain recovery without one
	gl, err := utils.NewRollingFileLogger(utils.LogOptions{
		Level:      cfg.LogLevel,
		Path:       cfg.GinPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, true))
	} else {
		r.Use(gin.Recovery())
	}

	var metrics *utils.Metrics
	if cfg.MetricsEnabled {
		metrics = utils.NewMetrics()
		r.Use(middleware.Metrics(metrics))
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	users := services.NewUserService(db)
	graph := services.NewSocialGraph(db, metrics)
	posts := services.NewPostService(db, metrics)
	resets := services.NewResetTokens(cfg.SecretKey, time.Duration(cfg.ResetTokenTTLSec)*time.Second, users)
	tokens := utils.NewSessionTokens(cfg.SecretKey, time.Duration(cfg.SessionTTLHours)*time.Hour)
	blacklist := utils.NewTokenBlacklist(rc)

	authController := controllers.NewAuthController(users, resets, tokens, blacklist)
	userController := controllers.NewUserController(users, graph, posts, cfg.PostsPerPage)
	postController := controllers.NewPostController(posts, graph, cfg.PostsPerPage)
	statsController := controllers.NewStatsController(users, posts, graph)

	requireAuth := middleware.AuthRequired(tokens, blacklist, users)
	lastSeen := middleware.LastSeen(users)
	withAuth := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{requireAuth, lastSeen, h}
	}

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/reset-password", authController.ResetPassword)
	authGroup.POST("/logout", withAuth(authController.Logout)...)
	authGroup.GET("/me", withAuth(authController.Me)...)
	authGroup.PATCH("/profile", withAuth(authController.UpdateProfile)...)

	api.GET("/stats", statsController.GetStats)
	api.GET("/posts", postController.Explore)
	api.GET("/users/:username", userController.Profile)
	api.GET("/users/:username/posts", userController.Posts)
	api.GET("/users/:username/followers", userController.Followers)
	api.GET("/users/:username/following", userController.Following)

	protected := api.Group("")
	protected.Use(requireAuth, lastSeen)
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	protected.GET("/feed", postController.Feed)
	protected.POST("/posts", postController.CreatePost)
	protected.POST("/users/:username/follow", userController.Follow)
	protected.POST("/users/:username/unfollow", userController.Unfollow)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
