package middleware

import (
  "net/http"

  "github.com/gin-gonic/gin"
)

type BodyLimitMiddleware struct {
  maxBytes int64
}

func NewBodyLimitMiddleware(maxBytes int64) *BodyLimitMiddleware {
  return &BodyLimitMiddleware{maxBytes: maxBytes}
}

// Handler caps every request body at maxBytes. Reads past the cap fail
// with *http.MaxBytesError, which multipart parsing surfaces to the
// upload handler.
func (m *BodyLimitMiddleware) Handler() gin.HandlerFunc {
  return func(c *gin.Context) {
    if m.maxBytes > 0 {
      c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, m.maxBytes)
    }
    c.Next()
  }
}
