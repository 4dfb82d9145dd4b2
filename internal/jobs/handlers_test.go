package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/jobs/runtime"
	"github.com/yungbote/lnd-backend/internal/services"
)

type yearRecorder struct {
	services.BadgeService
	years []int
}

func (r *yearRecorder) AwardYearly(ctx context.Context, year int) (*services.YearlyAwardResult, error) {
	r.years = append(r.years, year)
	return &services.YearlyAwardResult{Year: year}, nil
}

type reminderStub struct{ calls int }

func (r *reminderStub) SendForTomorrow(ctx context.Context) (*services.ReminderResult, error) {
	r.calls++
	return &services.ReminderResult{Date: "2025-01-02"}, nil
}

func TestYearlyBadgeHandlerAwardsPreviousYear(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Sub(clk.Now()))
	badges := &yearRecorder{}
	reminders := &reminderStub{}

	reg, err := NewRegistry(reminders, badges, clk)
	require.NoError(t, err)
	assert.Equal(t, []string{TypeSessionReminders, TypeYearlyBadges}, reg.Types())

	h, ok := reg.Get(TypeYearlyBadges)
	require.True(t, ok)
	res, err := h.Run(&runtime.Context{Ctx: context.Background()})
	require.NoError(t, err)
	assert.Equal(t, 2024, res.(*services.YearlyAwardResult).Year)
	assert.Equal(t, []int{2024}, badges.years)

	h, ok = reg.Get(TypeSessionReminders)
	require.True(t, ok)
	_, err = h.Run(&runtime.Context{Ctx: context.Background()})
	require.NoError(t, err)
	assert.Equal(t, 1, reminders.calls)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := runtime.NewRegistry()
	require.NoError(t, reg.Register(&SessionReminderHandler{}))
	assert.Error(t, reg.Register(&SessionReminderHandler{}))
	assert.Error(t, reg.Register(nil))
	_, ok := reg.Get(uuid.NewString())
	assert.False(t, ok)
}
