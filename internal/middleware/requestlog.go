package middleware

import (
  "time"

  "github.com/gin-gonic/gin"

  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
)

type RequestLogMiddleware struct {
  log *logger.Logger
}

func NewRequestLogMiddleware(log *logger.Logger) *RequestLogMiddleware {
  return &RequestLogMiddleware{log: log.With("middleware", "RequestLog")}
}

// Handler logs method, path, status and latency for every request.
func (m *RequestLogMiddleware) Handler() gin.HandlerFunc {
  return func(c *gin.Context) {
    started := time.Now()
    c.Next()
    m.log.Info("request",
      "method", c.Request.Method,
      "path", c.Request.URL.Path,
      "status", c.Writer.Status(),
      "latency", time.Since(started),
    )
  }
}
