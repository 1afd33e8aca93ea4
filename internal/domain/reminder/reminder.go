// Package reminder computes when a task reminder should fire.
package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// TriggerTime returns the instant a reminder for the task should be
// delivered: the task's due date and time, minus the user's reminder
// lead. A task with no due time is treated as due at the default
// reminder hour (9:00 local). Tasks without a due date never trigger,
// so the result is nil.
//
// loc is the user's time zone; a nil loc falls back to UTC.
func TriggerTime(task *domain.Task, prefs domain.Preferences, loc *time.Location) (*time.Time, error) {
	if task == nil || task.DueDate == nil {
		return nil, nil
	}

	if loc == nil {
		loc = time.UTC
	}

	hour := domain.DefaultReminderHour
	minute := 0
	if task.DueTime != "" {
		var err error
		hour, minute, err = parseClock(task.DueTime)
		if err != nil {
			return nil, err
		}
	}

	due := time.Date(
		task.DueDate.Year, task.DueDate.Month, task.DueDate.Day,
		hour, minute, 0, 0, loc,
	)

	lead := time.Duration(prefs.EffectiveReminderLeadMinutes()) * time.Minute
	at := due.Add(-lead)

	return &at, nil
}

// parseClock splits an HH:MM string into its components.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: malformed due time %q", domain.ErrInvalidInput, s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: malformed due time %q", domain.ErrInvalidInput, s)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: malformed due time %q", domain.ErrInvalidInput, s)
	}

	return hour, minute, nil
}
