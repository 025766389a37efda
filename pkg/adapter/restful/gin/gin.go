// Package gin wraps the gin-gonic engine instantiation, so callers
// outside of the restful adapter can configure middlewares without
// depending on the gin-gonic module directly.
package gin

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs one structured record per
// handled request with its method, path, response status, and
// latency.
func Logger() HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(
			c.Request.Context(), "handled request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}
