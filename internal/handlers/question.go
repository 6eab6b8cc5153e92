package handlers

import (
  "errors"
  "net/http"
  "net/url"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/listenbank/listenbank-backend/internal/apierr"
  "github.com/listenbank/listenbank-backend/internal/metrics"
  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/services"
)

type QuestionHandler struct {
  log             *logger.Logger
  questionService services.QuestionService
  metrics         *metrics.Metrics
}

func NewQuestionHandler(log *logger.Logger, questionService services.QuestionService, m *metrics.Metrics) *QuestionHandler {
  return &QuestionHandler{
    log:             log.With("handler", "QuestionHandler"),
    questionService: questionService,
    metrics:         m,
  }
}

// redirectFlash sends the browser back to target carrying a one-shot
// message in the query string (the templates render it).
func redirectFlash(c *gin.Context, target, msg string) {
  c.Redirect(http.StatusSeeOther, target+"?flash="+url.QueryEscape(msg))
}

// GET /
// Upload form with the level/source enumerations.
func (h *QuestionHandler) UploadForm(c *gin.Context) {
  c.HTML(http.StatusOK, "upload.html", gin.H{
    "Flash":         c.Query("flash"),
    "LevelOptions":  h.questionService.Levels(),
    "SourceOptions": h.questionService.Sources(),
  })
}

// POST /
// Multipart submission: audio file + question_text, answer, level, source.
func (h *QuestionHandler) Upload(c *gin.Context) {
  in := services.UploadInput{
    QuestionText: c.PostForm("question_text"),
    Answer:       c.PostForm("answer"),
    Level:        c.PostForm("level"),
    Source:       c.PostForm("source"),
  }

  fileHeader, err := c.FormFile("audio")
  switch {
  case err == nil && fileHeader != nil:
    f, openErr := fileHeader.Open()
    if openErr != nil {
      h.metrics.UploadsRejected.Inc()
      redirectFlash(c, "/", "could not read the uploaded file")
      return
    }
    defer f.Close()
    in.Filename = fileHeader.Filename
    in.File = f
  case errors.Is(err, http.ErrMissingFile):
    // The service reports the missing file as a validation error.
  case err != nil:
    h.metrics.UploadsRejected.Inc()
    var maxErr *http.MaxBytesError
    if errors.As(err, &maxErr) {
      redirectFlash(c, "/", "audio file exceeds the upload size limit")
    } else {
      redirectFlash(c, "/", "could not read the uploaded file")
    }
    return
  }

  if _, err := h.questionService.Upload(c.Request.Context(), in); err != nil {
    h.metrics.UploadsRejected.Inc()
    redirectFlash(c, "/", err.Error())
    return
  }

  h.metrics.UploadsAccepted.Inc()
  redirectFlash(c, "/", "question uploaded")
}

// GET /view?level=&source=
// Filtered catalog listing, most recent first.
func (h *QuestionHandler) View(c *gin.Context) {
  level := c.Query("level")
  source := c.Query("source")

  questions, err := h.questionService.List(c.Request.Context(), level, source)
  if err != nil {
    h.log.Error("Catalog listing failed", "error", err)
    RespondAPIError(c, err)
    return
  }

  c.HTML(http.StatusOK, "view.html", gin.H{
    "Flash":          c.Query("flash"),
    "Questions":      questions,
    "LevelOptions":   h.questionService.Levels(),
    "SourceOptions":  h.questionService.Sources(),
    "SelectedLevel":  level,
    "SelectedSource": source,
  })
}

// GET /generate?question_ids=1&question_ids=2
// Ordering and pause-duration UI for the selected questions.
func (h *QuestionHandler) Generate(c *gin.Context) {
  ids := parseIDList(c.QueryArray("question_ids"))
  questions, err := h.questionService.Select(c.Request.Context(), ids)
  if err != nil {
    if apierr.Is(err, apierr.CodeEmptySelection) {
      redirectFlash(c, "/view", "select at least one question")
      return
    }
    h.log.Error("Selection failed", "error", err)
    RespondAPIError(c, err)
    return
  }

  c.HTML(http.StatusOK, "generate.html", gin.H{
    "Questions":       questions,
    "DurationOptions": services.PauseDurationOptions,
  })
}

func parseIDList(raw []string) []int64 {
  ids := make([]int64, 0, len(raw))
  for _, s := range raw {
    id, err := strconv.ParseInt(s, 10, 64)
    if err != nil {
      continue
    }
    ids = append(ids, id)
  }
  return ids
}
