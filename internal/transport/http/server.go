package http

import (
	stdhttp "net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirecircle/internal/config"
	"github.com/vovakirdan/wirecircle/internal/core"
)

// NewServer builds an HTTP server with the chat, API and metrics routes.
// metrics may be nil to disable /metrics.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger, metrics stdhttp.Handler) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger, cfg.MaxMessageBytes, cfg.ClientBuffer)))

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	api := router.Group("/api")
	circles := NewCircleHandlers(hub, logger)
	api.GET("/circles", circles.ListCircles)

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			router.NoRoute(gin.WrapH(stdhttp.FileServer(stdhttp.Dir(cfg.StaticDir))))
		} else {
			logger.Warn().Str("static_dir", cfg.StaticDir).Msg("static directory not found, assets disabled")
		}
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
