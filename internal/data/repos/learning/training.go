package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type TrainingRepo interface {
	Create(dbc dbctx.Context, trainings []*types.Training) ([]*types.Training, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Training, error)
	ListByStatus(dbc dbctx.Context, status learning.TrainingStatus, offset, limit int) ([]*types.Training, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type trainingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingRepo(db *gorm.DB, baseLog *logger.Logger) TrainingRepo {
	return &trainingRepo{db: db, log: baseLog.With("repo", "TrainingRepo")}
}

func (r *trainingRepo) Create(dbc dbctx.Context, trainings []*types.Training) ([]*types.Training, error) {
	if len(trainings) == 0 {
		return []*types.Training{}, nil
	}
	if err := pick(r.db, dbc).Create(&trainings).Error; err != nil {
		return nil, translate(err)
	}
	return trainings, nil
}

func (r *trainingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Training, error) {
	return takeOne[types.Training](pick(r.db, dbc).Where("id = ?", id))
}

func (r *trainingRepo) ListByStatus(dbc dbctx.Context, status learning.TrainingStatus, offset, limit int) ([]*types.Training, error) {
	var out []*types.Training
	q := pick(r.db, dbc).Where("status = ?", status).Order("created_at ASC")
	if err := page(q, offset, limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *trainingRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return pick(r.db, dbc).
		Model(&types.Training{}).
		Where("id = ?", id).
		Updates(updates).Error
}
