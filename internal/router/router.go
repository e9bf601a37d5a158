package router

import (
	"net/http"

	"websecurity/internal/config"
	"websecurity/internal/handler"
	"websecurity/internal/middleware"
	"websecurity/internal/repository"
	"websecurity/internal/service"
	"websecurity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由，locker 为nil时不启用实体修改锁
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	db *gorm.DB,
	locker middleware.Locker,
) *gin.Engine {
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(&cfg.CORS))

	// 健康检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "websecurity training API",
			"version": "1.0.0",
		})
	})

	store := repository.NewStore(db)
	ids := utils.NewIdentifierGenerator()

	// 初始化Service
	authService := service.NewAuthService(store, jwtManager, cfg, logger)
	profileService := service.NewProfileService(store, logger)
	attachmentService := service.NewAttachmentService(store, logger)
	activityService := service.NewActivityService(store, ids, logger)
	offerService := service.NewOfferService(store, ids, logger)
	sessionService := service.NewSessionService(store, logger)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(authService, &cfg.Pagination)
	profileHandler := handler.NewProfileHandler(profileService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	activityHandler := handler.NewActivityHandler(activityService, &cfg.Pagination)
	offerHandler := handler.NewOfferHandler(offerService, &cfg.Pagination)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)

	activityLock := middleware.EntityLock(locker, "activity", logger)
	offerLock := middleware.EntityLock(locker, "offer", logger)

	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 认证路由
		auth := api.Group("")
		auth.Use(middleware.AuthMiddleware(jwtManager))
		{
			auth.GET("/me", authHandler.GetMe)
			auth.POST("/logout", authHandler.Logout)

			profile := auth.Group("/profile")
			{
				profile.GET("", profileHandler.GetOwn)
				profile.PUT("", profileHandler.Edit)
				profile.GET("/:id", profileHandler.Get)
			}

			attachments := auth.Group("/attachments")
			{
				attachments.GET("", attachmentHandler.List)
				attachments.POST("", attachmentHandler.Create)
				attachments.PUT("/:id", attachmentHandler.Edit)
				attachments.DELETE("/:id", attachmentHandler.Delete)
			}

			activities := auth.Group("/activities")
			{
				activities.GET("", activityHandler.List)
				activities.GET("/own", activityHandler.ListOwn)
				activities.POST("", activityHandler.Create)
				activities.GET("/:id", activityHandler.Get)
				activities.PUT("/:id", activityLock, activityHandler.Edit)
				activities.DELETE("/:id", activityLock, activityHandler.Delete)
				activities.POST("/:id/veto", activityLock, activityHandler.Veto)
				activities.POST("/:id/unveto", activityLock, activityHandler.Unveto)
			}

			offers := auth.Group("/offers")
			{
				offers.GET("", offerHandler.List)
				offers.GET("/own", offerHandler.ListOwn)
				offers.GET("/requested", offerHandler.ListRequested)
				offers.POST("", offerHandler.Create)
				offers.GET("/:id", offerHandler.Get)
				offers.PUT("/:id", offerLock, offerHandler.Edit)
				offers.DELETE("/:id", offerLock, offerHandler.Delete)
				offers.POST("/:id/veto", offerLock, offerHandler.Veto)
				offers.POST("/:id/unveto", offerLock, offerHandler.Unveto)
				offers.POST("/:id/close", offerLock, offerHandler.Close)
				offers.POST("/:id/request", offerHandler.Solicit)
				offers.DELETE("/:id/request", offerHandler.Withdraw)
			}

			sessions := auth.Group("/sessions")
			{
				sessions.GET("/:identifier/begin", sessionHandler.Begin)
				sessions.POST("/:identifier/complete", sessionHandler.Complete)
			}

			// 管理员路由
			admin := auth.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/users", adminHandler.ListUsers)
			}
		}
	}

	return r
}
