package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type AddLessonInput struct {
	ModuleID        uuid.UUID
	Title           string
	Type            learning.LessonType
	ContentURL      string
	ContentText     string
	DurationMinutes int
	Order           int
	Questions       datatypes.JSON
}

type ModuleOutline struct {
	Module  *types.Module   `json:"module"`
	Lessons []*types.Lesson `json:"lessons"`
}

type ModuleService interface {
	AddModule(ctx context.Context, trainingID uuid.UUID, title string, order int) (*types.Module, error)
	AddLesson(ctx context.Context, in AddLessonInput) (*types.Lesson, error)
	// Outline returns the training's modules in order, each with its lessons in order.
	Outline(ctx context.Context, trainingID uuid.UUID) ([]ModuleOutline, error)
}

type moduleService struct {
	db         *gorm.DB
	log        *logger.Logger
	trainings  repos.TrainingRepo
	moduleRepo repos.ModuleRepo
	lessonRepo repos.LessonRepo
}

func NewModuleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	trainings repos.TrainingRepo,
	moduleRepo repos.ModuleRepo,
	lessonRepo repos.LessonRepo,
) ModuleService {
	return &moduleService{
		db:         db,
		log:        baseLog.With("service", "ModuleService"),
		trainings:  trainings,
		moduleRepo: moduleRepo,
		lessonRepo: lessonRepo,
	}
}

func (s *moduleService) AddModule(ctx context.Context, trainingID uuid.UUID, title string, order int) (*types.Module, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("module title required: %w", errs.ErrInvalidArgument)
	}
	dbc := dbctx.New(ctx)
	t, err := s.trainings.GetByID(dbc, trainingID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("training %s: %w", trainingID, errs.ErrNotFound)
	}
	m := &types.Module{TrainingID: t.ID, Title: title, Order: order}
	if _, err := s.moduleRepo.Create(dbc, []*types.Module{m}); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *moduleService) AddLesson(ctx context.Context, in AddLessonInput) (*types.Lesson, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("lesson title required: %w", errs.ErrInvalidArgument)
	}
	if in.Type == "" {
		in.Type = learning.LessonTypeVideo
	}
	switch in.Type {
	case learning.LessonTypeVideo, learning.LessonTypeQuiz, learning.LessonTypeText:
	default:
		return nil, fmt.Errorf("unknown lesson type %q: %w", in.Type, errs.ErrInvalidArgument)
	}
	if in.DurationMinutes < 0 {
		return nil, fmt.Errorf("duration_minutes must not be negative: %w", errs.ErrInvalidArgument)
	}
	var out *types.Lesson
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		var exists int64
		if err := tx.Model(&types.Module{}).Where("id = ?", in.ModuleID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("module %s: %w", in.ModuleID, errs.ErrNotFound)
		}
		l := &types.Lesson{
			ModuleID:        in.ModuleID,
			Title:           title,
			Type:            in.Type,
			DurationMinutes: in.DurationMinutes,
			Order:           in.Order,
			Questions:       in.Questions,
		}
		if in.ContentURL != "" {
			l.ContentURL = &in.ContentURL
		}
		if in.ContentText != "" {
			l.ContentText = &in.ContentText
		}
		if _, err := s.lessonRepo.Create(dbc, []*types.Lesson{l}); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *moduleService) Outline(ctx context.Context, trainingID uuid.UUID) ([]ModuleOutline, error) {
	dbc := dbctx.New(ctx)
	modules, err := s.moduleRepo.ListByTraining(dbc, trainingID)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return []ModuleOutline{}, nil
	}
	ids := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	lessons, err := s.lessonRepo.ListByModuleIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	byModule := make(map[uuid.UUID][]*types.Lesson, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}
	out := make([]ModuleOutline, 0, len(modules))
	for _, m := range modules {
		ls := byModule[m.ID]
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Order < ls[j].Order })
		if ls == nil {
			ls = []*types.Lesson{}
		}
		out = append(out, ModuleOutline{Module: m, Lessons: ls})
	}
	return out, nil
}
