package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"

  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/types"
)

// ListFilter narrows a catalog listing. Zero-value fields match everything.
type ListFilter struct {
  Level  string
  Source string
}

type ListeningQuestionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, q *types.ListeningQuestion) (*types.ListeningQuestion, error)
  List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.ListeningQuestion, error)
  GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.ListeningQuestion, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.ListeningQuestion, error)
}

type listeningQuestionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewListeningQuestionRepo(db *gorm.DB, baseLog *logger.Logger) ListeningQuestionRepo {
  repoLog := baseLog.With("repo", "ListeningQuestionRepo")
  return &listeningQuestionRepo{db: db, log: repoLog}
}

func (r *listeningQuestionRepo) Create(ctx context.Context, tx *gorm.DB, q *types.ListeningQuestion) (*types.ListeningQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(q).Error; err != nil {
    return nil, err
  }
  return q, nil
}

func (r *listeningQuestionRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.ListeningQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).Model(&types.ListeningQuestion{})
  if filter.Level != "" {
    query = query.Where("level = ?", filter.Level)
  }
  if filter.Source != "" {
    query = query.Where("source = ?", filter.Source)
  }

  var results []*types.ListeningQuestion
  if err := query.Order("upload_time DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *listeningQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.ListeningQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.ListeningQuestion
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *listeningQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.ListeningQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ListeningQuestion
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
