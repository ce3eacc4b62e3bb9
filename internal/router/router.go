package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-board-api/internal/cache"
	"community-board-api/internal/config"
	"community-board-api/internal/database"
	"community-board-api/internal/handler"
	"community-board-api/internal/mail"
	"community-board-api/internal/metrics"
	"community-board-api/internal/middleware"
	"community-board-api/internal/repository"
	"community-board-api/internal/service"
	"community-board-api/internal/storage"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	ViewTracker    cache.ViewTracker
	ImageStore     storage.ImageStore
	MailSender     mail.Sender
	JWT            config.JWTConfig
	BasePath       string
	AllowedOrigins []string
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "community-board-api"})
	})
	r.GET("/ready", func(c *gin.Context) {
		// cfg.DB is nil when the async connector was still retrying at
		// setup time, so check the global handle it fills in later
		db := cfg.DB
		if db == nil {
			db = database.GetDB()
		}
		if db == nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "community-board-api"})
			return
		}
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "community-board-api"})
			return
		}
		c.JSON(200, gin.H{"status": "ready", "service": "community-board-api"})
	})

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(cfg.DB)
	postRepo := repository.NewPostRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	categoryRepo := repository.NewCategoryRepository(cfg.DB)
	profileImageRepo := repository.NewProfileImageRepository(cfg.DB)

	// Initialize services
	memberService := service.NewMemberService(
		memberRepo,
		postRepo,
		commentRepo,
		profileImageRepo,
		cfg.ImageStore,
		cfg.MailSender,
		cfg.JWT,
		cfg.Metrics,
		cfg.Logger,
	)
	postService := service.NewPostService(
		postRepo,
		commentRepo,
		categoryRepo,
		cfg.ViewTracker,
		cfg.Metrics,
		cfg.Logger,
	)
	commentService := service.NewCommentService(commentRepo, postRepo, cfg.Metrics, cfg.Logger)
	categoryService := service.NewCategoryService(categoryRepo, cfg.Logger)

	// Initialize handlers
	memberHandler := handler.NewMemberHandler(memberService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	api := r.Group(cfg.BasePath)

	authMiddleware := middleware.Auth(cfg.JWT.Secret)

	// ============================================================
	// Member routes
	// ============================================================
	members := api.Group("/members")
	{
		members.POST("", memberHandler.Join)
		members.GET("/verify-email", memberHandler.VerifyEmail)
		members.POST("/verify-email/resend", memberHandler.ResendVerification)
		members.POST("/login", memberHandler.Login)
		members.POST("/forgot-password", memberHandler.ForgotPassword)

		members.GET("/me", authMiddleware, memberHandler.GetMe)
		members.PUT("/me", authMiddleware, memberHandler.UpdateMe)
		members.DELETE("/me", authMiddleware, memberHandler.DeleteMe)
		members.POST("/me/image", authMiddleware, memberHandler.UpdateProfileImage)
		members.DELETE("/me/image", authMiddleware, memberHandler.DeleteProfileImage)
		members.POST("/me/oauth", authMiddleware, memberHandler.AttachOAuth)

		members.GET("/:memberId", memberHandler.GetMember)
		members.GET("/:memberId/activity", memberHandler.Activity)
	}

	// ============================================================
	// Post routes
	// ============================================================
	posts := api.Group("/posts")
	{
		posts.GET("", postHandler.List)
		posts.GET("/top/notices", postHandler.TopNotices)
		posts.GET("/top/views", postHandler.TopByViews)
		posts.GET("/top/comments", postHandler.TopByComments)
		posts.GET("/top/new", postHandler.TopNew)
		posts.GET("/:postId", middleware.ViewSession(), postHandler.Get)

		posts.POST("", authMiddleware, postHandler.Create)
		posts.PUT("/:postId", authMiddleware, postHandler.Update)
		posts.DELETE("/:postId", authMiddleware, postHandler.Delete)
	}

	// ============================================================
	// Comment routes
	// ============================================================
	comments := api.Group("/comments")
	{
		comments.GET("", commentHandler.List)
		comments.GET("/top/new", commentHandler.TopNew)
		comments.POST("", authMiddleware, commentHandler.Create)
		comments.PUT("/:commentId", authMiddleware, commentHandler.Update)
		comments.DELETE("/:commentId", authMiddleware, commentHandler.Delete)
	}

	// ============================================================
	// Category routes
	// ============================================================
	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.Tree)
		categories.GET("/:categoryId", categoryHandler.Get)
		categories.POST("", authMiddleware, middleware.AdminOnly(), categoryHandler.Create)
	}

	return r
}
