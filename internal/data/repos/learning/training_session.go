package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type TrainingSessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.TrainingSession) ([]*types.TrainingSession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TrainingSession, error)
	ListByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]*types.TrainingSession, error)
	// ListOnDate returns sessions whose session_date falls on day (UTC).
	ListOnDate(dbc dbctx.Context, day time.Time) ([]*types.TrainingSession, error)
	CountByTraining(dbc dbctx.Context, trainingID uuid.UUID) (int64, error)
}

type trainingSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingSessionRepo(db *gorm.DB, baseLog *logger.Logger) TrainingSessionRepo {
	return &trainingSessionRepo{db: db, log: baseLog.With("repo", "TrainingSessionRepo")}
}

func (r *trainingSessionRepo) Create(dbc dbctx.Context, sessions []*types.TrainingSession) ([]*types.TrainingSession, error) {
	if len(sessions) == 0 {
		return []*types.TrainingSession{}, nil
	}
	if err := pick(r.db, dbc).Create(&sessions).Error; err != nil {
		return nil, translate(err)
	}
	return sessions, nil
}

func (r *trainingSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TrainingSession, error) {
	return takeOne[types.TrainingSession](pick(r.db, dbc).Where("id = ?", id))
}

func (r *trainingSessionRepo) ListByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]*types.TrainingSession, error) {
	var out []*types.TrainingSession
	if err := pick(r.db, dbc).
		Where("training_id = ?", trainingID).
		Order("session_date ASC, start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *trainingSessionRepo) ListOnDate(dbc dbctx.Context, day time.Time) ([]*types.TrainingSession, error) {
	start := learning.DateOnly(day)
	end := start.AddDate(0, 0, 1)
	var out []*types.TrainingSession
	if err := pick(r.db, dbc).
		Where("session_date >= ? AND session_date < ?", start, end).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *trainingSessionRepo) CountByTraining(dbc dbctx.Context, trainingID uuid.UUID) (int64, error) {
	var n int64
	if err := pick(r.db, dbc).
		Model(&types.TrainingSession{}).
		Where("training_id = ?", trainingID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
