package handlers

import (
  "fmt"
  "path/filepath"

  "github.com/gin-gonic/gin"

  "github.com/listenbank/listenbank-backend/internal/apierr"
  "github.com/listenbank/listenbank-backend/internal/media"
  "github.com/listenbank/listenbank-backend/internal/metrics"
  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
)

type MediaFileHandler struct {
  log     *logger.Logger
  store   *media.Store
  metrics *metrics.Metrics
}

func NewMediaFileHandler(log *logger.Logger, store *media.Store, m *metrics.Metrics) *MediaFileHandler {
  return &MediaFileHandler{
    log:     log.With("handler", "MediaFileHandler"),
    store:   store,
    metrics: m,
  }
}

// GET /download/:filename
// Forces download of a generated track.
func (h *MediaFileHandler) Download(c *gin.Context) {
  name := filepath.Base(c.Param("filename"))
  path := h.store.GeneratedPath(name)
  if !media.Exists(path) {
    h.metrics.DownloadMisses.Inc()
    err := apierr.NotFound(fmt.Errorf("no generated track named %q", name))
    RespondError(c, err.Status, err.Code, err)
    return
  }
  h.metrics.Downloads.Inc()
  c.FileAttachment(path, name)
}

// GET /audio/:filename
// Streams a stored source clip inline.
func (h *MediaFileHandler) ServeAudio(c *gin.Context) {
  name := filepath.Base(c.Param("filename"))
  path := h.store.UploadPath(name)
  if !media.Exists(path) {
    err := apierr.NotFound(fmt.Errorf("no source clip named %q", name))
    RespondError(c, err.Status, err.Code, err)
    return
  }
  c.File(path)
}
