package jobs

import (
	"github.com/facebookgo/clock"

	"github.com/yungbote/lnd-backend/internal/jobs/runtime"
	"github.com/yungbote/lnd-backend/internal/services"
)

const (
	TypeSessionReminders = "session_reminders"
	TypeYearlyBadges     = "yearly_badges"
)

// SessionReminderHandler notifies enrollees of sessions scheduled for tomorrow.
type SessionReminderHandler struct {
	Reminders services.ReminderService
}

func (h *SessionReminderHandler) Type() string { return TypeSessionReminders }

func (h *SessionReminderHandler) Run(ctx *runtime.Context) (any, error) {
	return h.Reminders.SendForTomorrow(ctx.Ctx)
}

// YearlyBadgeHandler awards badges for the calendar year before the current one.
type YearlyBadgeHandler struct {
	Badges services.BadgeService
	Clock  clock.Clock
}

func (h *YearlyBadgeHandler) Type() string { return TypeYearlyBadges }

func (h *YearlyBadgeHandler) Run(ctx *runtime.Context) (any, error) {
	year := h.Clock.Now().UTC().Year() - 1
	return h.Badges.AwardYearly(ctx.Ctx, year)
}

// NewRegistry registers both scheduled jobs.
func NewRegistry(reminders services.ReminderService, badges services.BadgeService, clk clock.Clock) (*runtime.Registry, error) {
	reg := runtime.NewRegistry()
	if err := reg.Register(&SessionReminderHandler{Reminders: reminders}); err != nil {
		return nil, err
	}
	if err := reg.Register(&YearlyBadgeHandler{Badges: badges, Clock: clk}); err != nil {
		return nil, err
	}
	return reg, nil
}
