package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type YearHours struct {
	Year        int     `json:"year"`
	TotalHours  float64 `json:"total_hours"`
	Completions int     `json:"completions"`
}

type LearningHoursReport struct {
	UserID           uuid.UUID   `json:"user_id"`
	ByYear           []YearHours `json:"by_year"`
	TotalHours       float64     `json:"total_hours"`
	TotalCompletions int         `json:"total_completions"`
}

type ReportService interface {
	// LearningHoursByYear groups the user's completions by UTC calendar year, newest first.
	LearningHoursByYear(ctx context.Context, userID uuid.UUID) (*LearningHoursReport, error)
}

type reportService struct {
	log         *logger.Logger
	completions repos.TrainingCompletionRepo
}

func NewReportService(baseLog *logger.Logger, completions repos.TrainingCompletionRepo) ReportService {
	return &reportService{
		log:         baseLog.With("service", "ReportService"),
		completions: completions,
	}
}

func (s *reportService) LearningHoursByYear(ctx context.Context, userID uuid.UUID) (*LearningHoursReport, error) {
	rows, err := s.completions.ListByUser(dbctx.New(ctx), userID)
	if err != nil {
		return nil, err
	}
	out := &LearningHoursReport{UserID: userID, ByYear: []YearHours{}}
	idx := map[int]int{}
	for _, c := range rows {
		y := c.CompletedAt.UTC().Year()
		i, ok := idx[y]
		if !ok {
			out.ByYear = append(out.ByYear, YearHours{Year: y})
			i = len(out.ByYear) - 1
			idx[y] = i
		}
		out.ByYear[i].TotalHours += c.LearningHours
		out.ByYear[i].Completions++
		out.TotalHours += c.LearningHours
		out.TotalCompletions++
	}
	sort.Slice(out.ByYear, func(i, j int) bool { return out.ByYear[i].Year > out.ByYear[j].Year })
	return out, nil
}
