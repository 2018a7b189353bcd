// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hail/internal/http/handlers"
	"hail/internal/http/middleware"
)

func NewRouter(webhook *handlers.WebhookHandler, rides *handlers.RideHandler, log *zap.Logger) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	r.POST("/webhook/sms", webhook.Inbound)
	r.GET("/api/rides/:id", rides.Get)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
