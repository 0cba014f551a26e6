package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkovalenko/lostfound-backend/internal/config"
	"github.com/mkovalenko/lostfound-backend/internal/http/handlers"
	"github.com/mkovalenko/lostfound-backend/internal/http/middleware"
	"github.com/mkovalenko/lostfound-backend/internal/service"
)

// SetupRouter собирает gin.Engine со всеми маршрутами приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	itemHandler *handlers.ItemHandler,
	matchHandler *handlers.MatchHandler,
	mediaHandler *handlers.MediaHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/items", itemHandler.Index)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateMe)

		protected.GET("/dashboard", matchHandler.Dashboard)

		protected.POST("/items/lost", itemHandler.ReportLost)
		protected.POST("/items/found", itemHandler.ReportFound)
		protected.GET("/items/mine", itemHandler.ListMine)
		protected.GET("/items/counts", itemHandler.Counts)
		protected.DELETE("/items/lost/:id", middleware.UUIDValidator("id"), itemHandler.DeleteLost)
		protected.DELETE("/items/found/:id", middleware.UUIDValidator("id"), itemHandler.DeleteFound)

		protected.GET("/matches/notifications", matchHandler.Notifications)
		protected.GET("/matches/lost/:lostId/found/:foundId",
			middleware.UUIDValidator("lostId"), middleware.UUIDValidator("foundId"), matchHandler.GetMatch)
		protected.POST("/matches/lost/:lostId/found/:foundId/decision",
			middleware.UUIDValidator("lostId"), middleware.UUIDValidator("foundId"), matchHandler.Decide)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.DeleteNotification)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.DeleteMedia)
	}

	return r
}
