package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type LessonProgressRepo interface {
	Create(dbc dbctx.Context, rows []*types.LessonProgress) ([]*types.LessonProgress, error)
	GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	// CompletedLessonIDs filters lessonIDs down to those the user has completed.
	CompletedLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) Create(dbc dbctx.Context, rows []*types.LessonProgress) ([]*types.LessonProgress, error) {
	if len(rows) == 0 {
		return []*types.LessonProgress{}, nil
	}
	if err := pick(r.db, dbc).Create(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *lessonProgressRepo) GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	return takeOne[types.LessonProgress](pick(r.db, dbc).Where("user_id = ? AND lesson_id = ?", userID, lessonID))
}

func (r *lessonProgressRepo) CompletedLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(lessonIDs) == 0 {
		return ids, nil
	}
	if err := pick(r.db, dbc).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND is_completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *lessonProgressRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return pick(r.db, dbc).
		Model(&types.LessonProgress{}).
		Where("id = ?", id).
		Updates(updates).Error
}
