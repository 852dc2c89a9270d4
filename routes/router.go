package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/discuss/config"
	"github.com/cppla/discuss/controllers"
	"github.com/cppla/discuss/middleware"
	"github.com/cppla/discuss/services"
	"github.com/cppla/discuss/store"
	"github.com/cppla/discuss/utils"
)

// Deps are the collaborators the router hands to controllers.
type Deps struct {
	Store *store.Store
	Guard *utils.ReportGuard
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err == nil {
			r.Use(utils.Ginzap(gl, time.RFC3339, true))
			r.Use(utils.RecoveryWithZap(gl, false))
		} else {
			utils.Sugar.Warnf("gin logger disabled: %v", err)
			r.Use(utils.RecoveryWithZap(utils.Logger, false))
		}
	} else {
		r.Use(utils.RecoveryWithZap(utils.Logger, false))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	logger := utils.Logger
	discussionController := controllers.NewDiscussionController(services.NewDiscussionService(deps.Store, logger))
	contentController := controllers.NewContentController(services.NewContentService(deps.Store, logger))
	moderationController := controllers.NewModerationController(services.NewModerationService(deps.Store, logger), deps.Guard)

	api := r.Group("/api/v1")

	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.GET("/discussions", discussionController.ListDiscussions)
	public.GET("/discussions/:id", discussionController.GetDiscussion)
	public.GET("/discussions/:id/answers", contentController.ListAnswers)
	public.GET("/discussions/:id/answer", contentController.GetAnswer)
	public.GET("/discussions/:id/comments", contentController.ListCommentsForDiscussion)
	public.GET("/discussions/:id/answers/:answerId/comments", contentController.ListCommentsForAnswerInDiscussion)
	public.GET("/answers/:id", contentController.GetAnswerByID)
	public.GET("/answers/:id/comments", contentController.ListCommentsForAnswer)
	public.GET("/votes/:kind/:id", contentController.GetVoteCount)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/discussions", discussionController.CreateDiscussion)
	protected.POST("/discussions/:id/answers", contentController.CreateAnswer)
	protected.POST("/discussions/:id/answers/:answerId/comments", contentController.CreateComment)
	protected.POST("/answers/:id/votes", contentController.VoteAnswer)
	protected.POST("/comments/:id/votes", contentController.VoteComment)
	protected.POST("/discussions/:id/reports", moderationController.CreateReport)
	protected.POST("/answers/:id/reports", moderationController.CreateReportAnswer)
	protected.POST("/comments/:id/reports", moderationController.CreateReportComment)

	moderation := api.Group("/moderation")
	moderation.Use(middleware.AuthRequired(), middleware.ModeratorRequired())
	moderation.GET("/pending", moderationController.ListPending)
	moderation.GET("/reports/:kind", moderationController.ListReports)
	moderation.GET("/reports/:kind/:id", moderationController.GetReport)
	moderation.PATCH("/reports/:kind/:id", moderationController.ResolveReport)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
