package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// requestID reuses an incoming X-Request-Id or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs every request except health probes, at a level
// picked from the response status.
func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"client", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			l.Error(ctx, "request completed", args...)
		case status >= 400:
			l.Warn(ctx, "request completed", args...)
		default:
			l.Debug(ctx, "request completed", args...)
		}
	}
}

// recovery turns a panic into a 500 envelope.
func recovery(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				l.Error(context.Background(), "panic recovered",
					"error", fmt.Sprintf("%v", p),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				c.Abort()
				respond(c, CodeInternal, "internal server error", nil)
			}
		}()
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
