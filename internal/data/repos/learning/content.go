package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type ModuleRepo interface {
	Create(dbc dbctx.Context, modules []*types.Module) ([]*types.Module, error)
	ListByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]*types.Module, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) Create(dbc dbctx.Context, modules []*types.Module) ([]*types.Module, error) {
	if len(modules) == 0 {
		return []*types.Module{}, nil
	}
	if err := pick(r.db, dbc).Create(&modules).Error; err != nil {
		return nil, translate(err)
	}
	return modules, nil
}

func (r *moduleRepo) ListByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]*types.Module, error) {
	var out []*types.Module
	if err := pick(r.db, dbc).
		Where("training_id = ?", trainingID).
		Order(`"order" ASC`).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListByModuleIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	// ListIDsByTraining returns the ids of every lesson under every module of the training.
	ListIDsByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]uuid.UUID, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := pick(r.db, dbc).Create(&lessons).Error; err != nil {
		return nil, translate(err)
	}
	return lessons, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	return takeOne[types.Lesson](pick(r.db, dbc).Preload("Module").Where("id = ?", id))
}

func (r *lessonRepo) ListByModuleIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if len(moduleIDs) == 0 {
		return out, nil
	}
	if err := pick(r.db, dbc).
		Where("module_id IN ?", moduleIDs).
		Order(`module_id, "order" ASC`).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListIDsByTraining(dbc dbctx.Context, trainingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := pick(r.db, dbc).
		Model(&types.Lesson{}).
		Joins("JOIN module ON module.id = lesson.module_id AND module.deleted_at IS NULL").
		Where("module.training_id = ?", trainingID).
		Pluck("lesson.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
