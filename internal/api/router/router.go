package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/collabhub/notifications-service/internal/api/handlers/health"
	"github.com/collabhub/notifications-service/internal/api/handlers/notification"
	"github.com/collabhub/notifications-service/internal/middlewares"
)

// New assembles the HTTP routes of the service.
func New(notifHandler *notification.Handler, healthHandler *health.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	e.GET("/", healthHandler.Info)
	e.GET("/health", healthHandler.Check)

	api := e.Group("/api/notifications")
	{
		api.GET("", notifHandler.List)
		api.GET("/unread", notifHandler.UnreadCount)
		api.PATCH("/read", notifHandler.MarkRead)
		api.DELETE("", notifHandler.Delete)
	}

	return e
}
