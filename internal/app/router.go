// internal/app/router.go
package app

import (
	authHandler "slate-service/internal/handlers/auth"
	feedHandler "slate-service/internal/handlers/feed"
	notifyHandler "slate-service/internal/handlers/notification"
	subscriptionHandler "slate-service/internal/handlers/subscription"
	userHandler "slate-service/internal/handlers/user"
	"slate-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	UserHandler         *userHandler.UserHandler
	FeedHandler         *feedHandler.FeedHandler
	NotifHandler        *notifyHandler.NotificationHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
	}

	// ==================== Users ====================
	users := api.Group("/users")
	users.Use(h.AuthMiddleware.Auth())
	{
		users.GET("/me", h.UserHandler.GetMyProfile)
		users.PUT("/me", h.UserHandler.UpdateMyProfile)
		users.DELETE("/me", h.UserHandler.DeleteMyAccount)

		users.GET("/me/settings", h.UserHandler.GetMySettings)
		users.PUT("/me/settings", h.UserHandler.UpdateMySettings)

		users.GET("/me/sessions", h.UserHandler.ListMySessions)
		users.DELETE("/me/sessions", h.UserHandler.RevokeAllSessions)
		users.DELETE("/me/sessions/:session_id", h.UserHandler.RevokeSession)

		users.GET("/:user_id", h.UserHandler.GetPublicProfile)
	}

	// ==================== Feed ====================
	feed := api.Group("/feed")
	feed.Use(h.AuthMiddleware.Auth())
	{
		feed.GET("", h.FeedHandler.GetFeed)
		feed.POST("", h.FeedHandler.CreatePost)
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.List)
		notifications.PUT("/:notification_id/read", h.NotifHandler.MarkAsRead)
	}

	// ==================== Subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.GET("/tiers", h.SubscriptionHandler.ListTiers)

		subscriptionsAuth := subscriptions.Group("")
		subscriptionsAuth.Use(h.AuthMiddleware.Auth())
		{
			subscriptionsAuth.GET("", h.SubscriptionHandler.GetCurrent)
			subscriptionsAuth.POST("/upgrade", h.SubscriptionHandler.UpgradeTier)
		}
	}
}
