// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// CORS 跨域中间件
func CORS(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{wildcard}
	}

	c := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		ExposeHeaders:    []string{RequestIDHeader, TraceIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	// "*" 与具体源列表互斥
	allowAllOrigins := len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == wildcard
	if allowAllOrigins {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}

	reflectHeaders := contains(cfg.AllowedHeaders, wildcard)
	if !reflectHeaders {
		c.AllowHeaders = cfg.AllowedHeaders
	}
	handler := cors.New(c)
	if !reflectHeaders {
		return handler
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}

	// 预检时原样回显请求头列表；携带凭证时字面量 "*" 不被浏览器识别为通配
	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		requested := ctx.GetHeader("Access-Control-Request-Headers")
		if ctx.Request.Method == http.MethodOptions && requested != "" && (allowAllOrigins || origins[origin]) {
			ctx.Writer.Header().Set("Access-Control-Allow-Headers", requested)
		}
		handler(ctx)
	}
}

const wildcard = "*"

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
