package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

// UserHours is the per-user roll-up of completions over a period.
type UserHours struct {
	UserID     uuid.UUID
	TotalHours float64
	Trainings  int
}

type TrainingCompletionRepo interface {
	// Create fails with ErrConflict when the enrollment already has a completion.
	Create(dbc dbctx.Context, completions []*types.TrainingCompletion) ([]*types.TrainingCompletion, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TrainingCompletion, error)
	GetByEnrollment(dbc dbctx.Context, enrollmentID uuid.UUID) (*types.TrainingCompletion, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.TrainingCompletion, error)
	// SumByUserInRange groups completions with completed_at in [from, to) by user.
	SumByUserInRange(dbc dbctx.Context, from, to time.Time) ([]UserHours, error)
	SumForUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) (UserHours, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type trainingCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainingCompletionRepo(db *gorm.DB, baseLog *logger.Logger) TrainingCompletionRepo {
	return &trainingCompletionRepo{db: db, log: baseLog.With("repo", "TrainingCompletionRepo")}
}

func (r *trainingCompletionRepo) Create(dbc dbctx.Context, completions []*types.TrainingCompletion) ([]*types.TrainingCompletion, error) {
	if len(completions) == 0 {
		return []*types.TrainingCompletion{}, nil
	}
	if err := pick(r.db, dbc).Create(&completions).Error; err != nil {
		return nil, translate(err)
	}
	return completions, nil
}

func (r *trainingCompletionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TrainingCompletion, error) {
	return takeOne[types.TrainingCompletion](pick(r.db, dbc).Where("id = ?", id))
}

func (r *trainingCompletionRepo) GetByEnrollment(dbc dbctx.Context, enrollmentID uuid.UUID) (*types.TrainingCompletion, error) {
	return takeOne[types.TrainingCompletion](pick(r.db, dbc).Where("enrollment_id = ?", enrollmentID))
}

func (r *trainingCompletionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.TrainingCompletion, error) {
	var out []*types.TrainingCompletion
	if err := pick(r.db, dbc).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type userHoursRow struct {
	UserID     uuid.UUID
	TotalHours float64
	Trainings  int
}

func (r *trainingCompletionRepo) SumByUserInRange(dbc dbctx.Context, from, to time.Time) ([]UserHours, error) {
	var rows []userHoursRow
	if err := pick(r.db, dbc).
		Model(&types.TrainingCompletion{}).
		Select("user_id, COALESCE(SUM(learning_hours), 0) AS total_hours, COUNT(*) AS trainings").
		Where("completed_at >= ? AND completed_at < ?", from.UTC(), to.UTC()).
		Group("user_id").
		Order("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]UserHours, 0, len(rows))
	for _, row := range rows {
		out = append(out, UserHours(row))
	}
	return out, nil
}

func (r *trainingCompletionRepo) SumForUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) (UserHours, error) {
	var row userHoursRow
	if err := pick(r.db, dbc).
		Model(&types.TrainingCompletion{}).
		Select("COALESCE(SUM(learning_hours), 0) AS total_hours, COUNT(*) AS trainings").
		Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, from.UTC(), to.UTC()).
		Scan(&row).Error; err != nil {
		return UserHours{}, err
	}
	row.UserID = userID
	return UserHours(row), nil
}

func (r *trainingCompletionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return pick(r.db, dbc).
		Model(&types.TrainingCompletion{}).
		Where("id = ?", id).
		Updates(updates).Error
}
