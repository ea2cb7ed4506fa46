// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"layersense/internal/config"
	"layersense/internal/interfaces/http/handler"
	"layersense/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine    *gin.Engine
	cfg       *config.Config
	health    *handler.HealthHandler
	animation *handler.AnimationHandler
	limiter   middleware.RateLimiter
}

// New 创建路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, health *handler.HealthHandler, animation *handler.AnimationHandler, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:    gin.New(),
		cfg:       cfg,
		health:    health,
		animation: animation,
		limiter:   limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods:   r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders:   r.cfg.Security.CORS.AllowedHeaders,
		AllowCredentials: r.cfg.Security.CORS.AllowCredentials,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
	}, r.limiter))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/info", handler.Info)
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)

	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/api/v1")
	{
		scenes := v1.Group("/scenes")
		scenes.POST("/animation", r.animation.Create)
	}
}
