package http

import (
	"time"

	"quiz_duel/internal/http/handlers"
	"quiz_duel/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	AllowedOrigin string
	Checks        map[string]handlers.Checker
	// nil - без ограничения частоты
	Redis *redis.Client
}

func NewRouter(h *handlers.Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(cfg.AllowedOrigin))

	r.GET("/healthz", handlers.Health(cfg.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", middleware.RateLimit(cfg.Redis, 30, time.Minute), h.WS)

	api := r.Group("/api")
	api.POST("/matches", h.CreateMatch)
	api.GET("/sessions/:id", h.RequirePlayer(), h.GetSession)

	return r
}
