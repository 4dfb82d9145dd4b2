package scheduler

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/lnd-backend/internal/jobs"
	"github.com/yungbote/lnd-backend/internal/pkg/envutil"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

// Config maps job types to cron specs. Schedules are evaluated in UTC.
type Config struct {
	Enabled bool                 `yaml:"enabled"`
	Jobs    map[string]JobConfig `yaml:"jobs"`
}

type JobConfig struct {
	Schedule string `yaml:"schedule"`
	Disabled bool   `yaml:"disabled"`
}

const (
	DefaultReminderSchedule = "0 9 * * *"
	DefaultBadgeSchedule    = "0 0 1 1 *"
)

func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Jobs: map[string]JobConfig{
			jobs.TypeSessionReminders: {Schedule: DefaultReminderSchedule},
			jobs.TypeYearlyBadges:     {Schedule: DefaultBadgeSchedule},
		},
	}
}

// LoadConfig overlays the YAML file at path onto the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scheduler config: %w", err)
	}
	var file struct {
		Enabled *bool                `yaml:"enabled"`
		Jobs    map[string]JobConfig `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(b, &file); err != nil {
		return cfg, fmt.Errorf("parse scheduler config: %w", err)
	}
	if file.Enabled != nil {
		cfg.Enabled = *file.Enabled
	}
	for name, jc := range file.Jobs {
		cur := cfg.Jobs[name]
		if s := strings.TrimSpace(jc.Schedule); s != "" {
			cur.Schedule = s
		}
		cur.Disabled = jc.Disabled
		cfg.Jobs[name] = cur
	}
	return cfg, nil
}

// ConfigFromEnv reads SCHEDULER_ENABLED, the optional SCHEDULER_CONFIG file and
// the REMINDER_CRON/BADGE_CRON overrides. A broken file falls back to the defaults.
func ConfigFromEnv(log *logger.Logger) Config {
	cfg := DefaultConfig()
	if path := strings.TrimSpace(envutil.GetEnv("SCHEDULER_CONFIG", "", log)); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			log.Warn("scheduler config ignored", "path", path, "error", err)
		} else {
			cfg = loaded
		}
	}
	cfg.Enabled = envutil.GetEnvAsBool("SCHEDULER_ENABLED", cfg.Enabled, log)
	overrideSchedule(cfg, jobs.TypeSessionReminders, envutil.GetEnv("REMINDER_CRON", "", log))
	overrideSchedule(cfg, jobs.TypeYearlyBadges, envutil.GetEnv("BADGE_CRON", "", log))
	return cfg
}

func overrideSchedule(cfg Config, job, spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return
	}
	jc := cfg.Jobs[job]
	jc.Schedule = spec
	cfg.Jobs[job] = jc
}
