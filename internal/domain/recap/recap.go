// Package recap condenses a day of study activity into a summary and a
// ranked carry-over list for tomorrow.
package recap

import (
	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/planner"
)

// MessageTier is the ordinal category used to pick a canned recap
// message. It is a fixed step function on focus minutes, nothing is
// scored or learned.
type MessageTier int

// Message tiers from no activity to a strong day
const (
	MessageTierNone MessageTier = iota
	MessageTierLight
	MessageTierSteady
	MessageTierSolid
	MessageTierStrong
)

// Tier maps total focus minutes to a message tier using the fixed
// thresholds at 0, 15, 45, and 90 minutes.
func Tier(focusMinutes int) MessageTier {
	switch {
	case focusMinutes >= domain.RecapTierStrongMinutes:
		return MessageTierStrong
	case focusMinutes >= domain.RecapTierSolidMinutes:
		return MessageTierSolid
	case focusMinutes >= domain.RecapTierLightMinutes:
		return MessageTierSteady
	case focusMinutes > 0:
		return MessageTierLight
	default:
		return MessageTierNone
	}
}

// Aggregate builds the end-of-day summary.
//
// Focus minutes sum elapsed time across all sessions regardless of
// whether they finished, so an abandoned session still earns partial
// credit. The carry-over list is the overdue and due-tomorrow portion
// of tomorrow's plan, capped to the top entries.
func Aggregate(
	sessions []*domain.FocusSession,
	completedTasks []*domain.Task,
	pendingTasks []*domain.Task,
	itemsReviewed int,
	reviewsPassed int,
	today domain.Date,
) *domain.RecapSummary {
	summary := &domain.RecapSummary{
		Date:          today,
		ItemsReviewed: itemsReviewed,
		CarryOver:     []domain.CarryOverTask{},
	}

	var focusMinutes float64
	for _, s := range sessions {
		if s == nil {
			continue
		}
		focusMinutes += s.ElapsedMinutes
		if s.Completed {
			summary.SessionsCompleted++
		} else if s.State == domain.SessionStateAbandoned {
			summary.SessionsAbandoned++
		}
	}
	summary.FocusMinutes = int(focusMinutes)

	for _, t := range completedTasks {
		if t == nil || t.CompletedAt == nil {
			continue
		}
		if domain.DateOf(*t.CompletedAt).Equal(today) {
			summary.TasksCompleted++
		}
	}

	if itemsReviewed > 0 {
		summary.ReviewPassRate = float64(reviewsPassed) / float64(itemsReviewed)
	}

	tier := Tier(summary.FocusMinutes)
	summary.MessageTier = int(tier)
	summary.Message = messages[tier]

	summary.CarryOver = carryOver(pendingTasks, today)

	return summary
}

// messages is the fixed lookup from tier to a canned recap line.
var messages = map[MessageTier]string{
	MessageTierNone:   "No focus time logged today. Tomorrow is a fresh start.",
	MessageTierLight:  "You got a little studying in today. Small steps add up.",
	MessageTierSteady: "Nice work today. A steady session makes a real difference.",
	MessageTierSolid:  "Solid study day! You put in serious focused time.",
	MessageTierStrong: "Outstanding effort today. That was a heavyweight study day.",
}

// carryOver ranks the still-pending tasks against tomorrow and keeps
// the urgent head of the list: overdue tasks and tasks due tomorrow.
func carryOver(pendingTasks []*domain.Task, today domain.Date) []domain.CarryOverTask {
	tomorrow := today.AddDays(1)
	plan := planner.GeneratePlan(pendingTasks, tomorrow)

	byID := make(map[uuid.UUID]*domain.Task, len(pendingTasks))
	for _, t := range pendingTasks {
		if t != nil {
			byID[t.ID] = t
		}
	}

	carry := []domain.CarryOverTask{}
	for _, entry := range plan.Entries {
		if len(carry) == domain.MaxCarryOverTasks {
			break
		}

		task := byID[entry.TaskID]
		if task == nil || task.DueDate == nil || task.DueDate.After(tomorrow) {
			continue
		}

		// Anything that survives the filter is due by tomorrow, which is
		// the high-priority condition.
		carry = append(carry, domain.CarryOverTask{
			TaskID:       task.ID,
			Title:        task.Title,
			Subject:      task.Subject,
			DueDate:      task.DueDate,
			HighPriority: true,
		})
	}

	return carry
}
