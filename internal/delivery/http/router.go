package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouterConfig holds all dependencies for routing.
type RouterConfig struct {
	VoiceHandler *VoiceHandler
}

// SetupRoutes configures middleware and all HTTP routes.
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// health probes poll frequently, keep them out of the access log
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	e.GET("/", config.VoiceHandler.HandleRoot)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "healthy",
			"service":   "voicetrade-api",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	e.POST("/upload", config.VoiceHandler.HandleUpload)
}
