package services

import (
  "context"
  "fmt"
  "io"
  "strings"
  "time"

  "gorm.io/gorm"

  "github.com/listenbank/listenbank-backend/internal/apierr"
  "github.com/listenbank/listenbank-backend/internal/media"
  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/repos"
  "github.com/listenbank/listenbank-backend/internal/types"
)

// PauseDurationOptions are the per-question pause choices offered on the
// assembly page, in seconds.
var PauseDurationOptions = []int{5, 10, 15, 20, 25, 30}

// UploadInput carries one multipart submission: the clip plus its
// required metadata.
type UploadInput struct {
  Filename     string
  File         io.Reader
  QuestionText string
  Answer       string
  Level        string
  Source       string
}

type QuestionService interface {
  Upload(ctx context.Context, in UploadInput) (*types.ListeningQuestion, error)
  List(ctx context.Context, level, source string) ([]*types.ListeningQuestion, error)
  Select(ctx context.Context, ids []int64) ([]*types.ListeningQuestion, error)
  Levels() []string
  Sources() []string
}

type questionService struct {
  db           *gorm.DB
  log          *logger.Logger
  questionRepo repos.ListeningQuestionRepo
  store        *media.Store
}

func NewQuestionService(db *gorm.DB, baseLog *logger.Logger, questionRepo repos.ListeningQuestionRepo, store *media.Store) QuestionService {
  serviceLog := baseLog.With("service", "QuestionService")
  return &questionService{
    db:           db,
    log:          serviceLog,
    questionRepo: questionRepo,
    store:        store,
  }
}

// Upload validates the submission, stores the clip, and inserts the
// catalog row. If the insert fails the stored clip is removed so a
// half-finished upload leaves nothing behind.
func (s *questionService) Upload(ctx context.Context, in UploadInput) (*types.ListeningQuestion, error) {
  questionText := strings.TrimSpace(in.QuestionText)
  answer := strings.TrimSpace(in.Answer)
  level := strings.TrimSpace(in.Level)
  source := strings.TrimSpace(in.Source)

  if questionText == "" || answer == "" || level == "" || source == "" {
    return nil, apierr.Validation(fmt.Errorf("question text, answer, level and source are all required"))
  }
  if !types.IsValidLevel(level) {
    return nil, apierr.Validation(fmt.Errorf("unknown level %q", level))
  }
  if !types.IsValidSource(source) {
    return nil, apierr.Validation(fmt.Errorf("unknown source %q", source))
  }
  if in.File == nil || in.Filename == "" {
    return nil, apierr.Validation(fmt.Errorf("no audio file selected"))
  }
  if !media.AllowedExtension(in.Filename) {
    return nil, apierr.Validation(fmt.Errorf("only MP3 audio is accepted"))
  }

  storageName := fmt.Sprintf("%d_%s", time.Now().Unix(), media.SanitizeFilename(in.Filename))
  if _, err := s.store.SaveUpload(storageName, in.File); err != nil {
    s.log.Error("Failed to store uploaded clip", "file", storageName, "error", err)
    return nil, fmt.Errorf("store uploaded clip: %w", err)
  }

  question := &types.ListeningQuestion{
    AudioPath:    storageName,
    QuestionText: questionText,
    Answer:       answer,
    Level:        level,
    Source:       source,
  }
  created, err := s.questionRepo.Create(ctx, nil, question)
  if err != nil {
    s.log.Error("Catalog insert failed, removing stored clip", "file", storageName, "error", err)
    s.store.RemoveUpload(storageName)
    return nil, fmt.Errorf("insert catalog record: %w", err)
  }

  s.log.Info("Question uploaded",
    "question_id", created.ID,
    "audio_path", created.AudioPath,
    "level", created.Level,
    "source", created.Source,
  )
  return created, nil
}

// List returns catalog records matching the optional level/source
// filters, most recent first.
func (s *questionService) List(ctx context.Context, level, source string) ([]*types.ListeningQuestion, error) {
  return s.questionRepo.List(ctx, nil, repos.ListFilter{Level: level, Source: source})
}

// Select resolves a non-empty id list to records. Unknown ids are
// silently omitted; callers needing a specific order reorder downstream.
func (s *questionService) Select(ctx context.Context, ids []int64) ([]*types.ListeningQuestion, error) {
  if len(ids) == 0 {
    return nil, apierr.EmptySelection(fmt.Errorf("no question identifiers supplied"))
  }
  return s.questionRepo.GetByIDs(ctx, nil, ids)
}

func (s *questionService) Levels() []string  { return types.LevelOptions }
func (s *questionService) Sources() []string { return types.SourceOptions }
