// Package planner ranks a student's open tasks into a daily plan.
//
// Tasks are bucketed into four urgency tiers (overdue, due today, due
// soon, later or undated) and ranked contiguously across tiers. The
// ranking is a pure function of its inputs, so the same task set and
// date always produce the same plan.
package planner

import (
	"fmt"
	"sort"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// DueSoonWindowDays is how many days past today still count as "due
// soon" (exclusive of today itself).
const DueSoonWindowDays = 7

// tier identifies one urgency bucket. Lower is more urgent.
type tier int

const (
	tierOverdue tier = iota
	tierDueToday
	tierDueSoon
	tierLater
)

// GeneratePlan turns a set of tasks into the ranked plan for today.
//
// Completed tasks are excluded. The remaining tasks are bucketed by
// due date, sorted deterministically within each bucket, and assigned
// ranks 1..N across buckets in urgency order. The time total covers
// only the first three tiers; later and undated tasks are listed but
// not counted, since they are not actionable today. An empty input
// yields an empty plan, not an error.
func GeneratePlan(tasks []*domain.Task, today domain.Date) *domain.DailyPlan {
	buckets := make(map[tier][]*domain.Task)
	for _, t := range tasks {
		if t == nil || t.IsCompleted() {
			continue
		}
		tr := classify(t, today)
		buckets[tr] = append(buckets[tr], t)
	}

	plan := &domain.DailyPlan{
		Date:    today,
		Entries: []domain.PlanEntry{},
	}

	rank := 1
	for _, tr := range []tier{tierOverdue, tierDueToday, tierDueSoon, tierLater} {
		bucket := buckets[tr]
		sortBucket(bucket)

		for _, t := range bucket {
			plan.Entries = append(plan.Entries, domain.PlanEntry{
				TaskID: t.ID,
				Rank:   rank,
				Reason: reason(t, tr, today),
			})
			rank++

			if tr != tierLater {
				plan.TotalEstimatedMinutes += t.EstimatedMinutes
			}
		}
	}

	return plan
}

// classify places one open task into its urgency tier for today.
func classify(t *domain.Task, today domain.Date) tier {
	if t.DueDate == nil {
		return tierLater
	}

	switch {
	case t.DueDate.Before(today):
		return tierOverdue
	case t.DueDate.Equal(today):
		return tierDueToday
	case today.DaysUntil(*t.DueDate) <= DueSoonWindowDays:
		return tierDueSoon
	default:
		return tierLater
	}
}

// sortBucket orders a tier ascending by (due date, estimate, title).
// Undated tasks sort after dated ones. The triple key gives a total
// order, which keeps rank assignment reproducible.
func sortBucket(bucket []*domain.Task) {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]

		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}

		if a.EstimatedMinutes != b.EstimatedMinutes {
			return a.EstimatedMinutes < b.EstimatedMinutes
		}

		return a.Title < b.Title
	})
}

// reason builds the human-readable label attached to a plan entry.
func reason(t *domain.Task, tr tier, today domain.Date) string {
	switch tr {
	case tierOverdue:
		return "Overdue"
	case tierDueToday:
		return "Due today"
	case tierDueSoon:
		return fmt.Sprintf("Due in %d days", today.DaysUntil(*t.DueDate))
	default:
		if t.DueDate == nil {
			return "No due date"
		}
		return fmt.Sprintf("Due in %d days", today.DaysUntil(*t.DueDate))
	}
}
