package tasks

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseSchedule accepts five-field cron specs and descriptors such as "@hourly" or "@every 30m",
// the same grammar the asynq scheduler uses.
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return schedule, nil
}

// NextRun returns when spec fires next after from.
func NextRun(spec string, from time.Time) (time.Time, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}
