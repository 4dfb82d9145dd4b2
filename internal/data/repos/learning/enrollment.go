package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type EnrollmentRepo interface {
	// Create fails with ErrConflict when the user already has an active
	// enrollment in the training.
	Create(dbc dbctx.Context, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error)
	GetByUserAndTraining(dbc dbctx.Context, userID, trainingID uuid.UUID) (*types.Enrollment, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Enrollment, error)
	ListByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]*types.Enrollment, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
	if len(enrollments) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := pick(r.db, dbc).Create(&enrollments).Error; err != nil {
		return nil, translate(err)
	}
	return enrollments, nil
}

func (r *enrollmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error) {
	return takeOne[types.Enrollment](pick(r.db, dbc).Where("id = ?", id))
}

func (r *enrollmentRepo) GetByUserAndTraining(dbc dbctx.Context, userID, trainingID uuid.UUID) (*types.Enrollment, error) {
	return takeOne[types.Enrollment](pick(r.db, dbc).
		Where("user_id = ? AND training_id = ?", userID, trainingID).
		Order("created_at DESC"))
}

func (r *enrollmentRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if err := pick(r.db, dbc).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) ListByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if err := pick(r.db, dbc).
		Where("training_id = ?", trainingID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return pick(r.db, dbc).
		Model(&types.Enrollment{}).
		Where("id = ?", id).
		Updates(updates).Error
}
