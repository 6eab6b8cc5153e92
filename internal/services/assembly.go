package services

import (
  "context"
  "fmt"
  "os"
  "strconv"
  "time"

  "github.com/google/uuid"

  "github.com/listenbank/listenbank-backend/internal/apierr"
  "github.com/listenbank/listenbank-backend/internal/audio"
  "github.com/listenbank/listenbank-backend/internal/media"
  "github.com/listenbank/listenbank-backend/internal/metrics"
  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/repos"
)

// DefaultPauseSeconds is used when a question has no explicit pause
// duration in the request.
const DefaultPauseSeconds = 5

// AssembleRequest mirrors the JSON body of the assembly endpoint:
// playback order plus per-question pauses keyed by stringified id.
type AssembleRequest struct {
  QuestionOrder []int64        `json:"question_order"`
  Durations     map[string]int `json:"durations"`
}

// AssembleResult reports the generated filename and any announcement or
// ending clips that were absent (advisory, not an error).
type AssembleResult struct {
  Filename     string
  MissingClips []string
  Duration     time.Duration
}

type AssemblyService interface {
  Assemble(ctx context.Context, req AssembleRequest) (*AssembleResult, error)
}

type assemblyService struct {
  log          *logger.Logger
  questionRepo repos.ListeningQuestionRepo
  store        *media.Store
  codec        audio.Codec
  metrics      *metrics.Metrics
}

func NewAssemblyService(baseLog *logger.Logger, questionRepo repos.ListeningQuestionRepo, store *media.Store, codec audio.Codec, m *metrics.Metrics) AssemblyService {
  serviceLog := baseLog.With("service", "AssemblyService")
  return &assemblyService{
    log:          serviceLog,
    questionRepo: questionRepo,
    store:        store,
    codec:        codec,
    metrics:      m,
  }
}

// Assemble builds one combined track, strictly sequentially: for each
// position an optional numbered announcement clip, the question clip,
// then the requested pause; after the loop the optional ending clip.
// Missing announcement/ending clips are collected and reported, a
// missing catalog record skips its position entirely, and any other
// failure aborts the whole request.
func (s *assemblyService) Assemble(ctx context.Context, req AssembleRequest) (*AssembleResult, error) {
  if len(req.QuestionOrder) == 0 {
    s.metrics.AssembliesFailed.Inc()
    return nil, apierr.EmptySelection(fmt.Errorf("no questions selected"))
  }

  started := time.Now()
  result, err := s.assemble(ctx, req)
  if err != nil {
    s.metrics.AssembliesFailed.Inc()
    return nil, apierr.Pipeline(err)
  }

  s.metrics.AssembliesSucceeded.Inc()
  s.metrics.AssemblyDuration.Observe(time.Since(started).Seconds())
  s.metrics.OutputAudioSeconds.Observe(result.Duration.Seconds())
  return result, nil
}

func (s *assemblyService) assemble(ctx context.Context, req AssembleRequest) (*AssembleResult, error) {
  timeline := audio.NewTimeline()
  var missing []string

  for i, questionID := range req.QuestionOrder {
    position := i + 1

    announcePath := s.store.AnnouncementPath(position)
    if media.Exists(announcePath) {
      samples, err := s.codec.Decode(ctx, announcePath)
      if err != nil {
        return nil, fmt.Errorf("decode announcement clip %s: %w", media.AnnouncementName(position), err)
      }
      timeline.Append(samples)
    } else {
      missing = append(missing, media.AnnouncementName(position))
    }

    question, err := s.questionRepo.GetByID(ctx, nil, questionID)
    if err != nil {
      return nil, fmt.Errorf("look up question %d: %w", questionID, err)
    }
    if question == nil {
      s.log.Warn("Question not found, skipping position", "question_id", questionID, "position", position)
      continue
    }

    samples, err := s.codec.Decode(ctx, s.store.UploadPath(question.AudioPath))
    if err != nil {
      return nil, fmt.Errorf("decode clip for question %d: %w", questionID, err)
    }
    timeline.Append(samples)

    pause := DefaultPauseSeconds
    if d, ok := req.Durations[strconv.FormatInt(questionID, 10)]; ok {
      pause = d
    }
    timeline.AppendSilence(time.Duration(pause) * time.Second)
  }

  endingPath := s.store.EndingPath()
  if media.Exists(endingPath) {
    samples, err := s.codec.Decode(ctx, endingPath)
    if err != nil {
      return nil, fmt.Errorf("decode ending clip: %w", err)
    }
    timeline.Append(samples)
  } else {
    missing = append(missing, media.EndingClipName)
  }

  filename := fmt.Sprintf("combined_%s.mp3", uuid.New().String())
  outPath := s.store.GeneratedPath(filename)
  if err := s.codec.EncodeMP3(ctx, timeline.Samples(), outPath); err != nil {
    // No partial output is kept on export failure.
    _ = os.Remove(outPath)
    return nil, fmt.Errorf("export combined track: %w", err)
  }

  s.log.Info("Combined track generated",
    "filename", filename,
    "positions", len(req.QuestionOrder),
    "duration", timeline.Duration(),
    "missing_clips", missing,
  )
  return &AssembleResult{
    Filename:     filename,
    MissingClips: missing,
    Duration:     timeline.Duration(),
  }, nil
}
