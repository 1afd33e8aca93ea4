package domain

import "github.com/google/uuid"

// PlanEntry is one ranked task in a daily plan.
type PlanEntry struct {
	TaskID uuid.UUID `json:"task_id"`
	Rank   int       `json:"rank"`
	Reason string    `json:"reason"`
}

// DailyPlan is an ordered list of open tasks for one day, with an
// estimate of the urgent workload.
type DailyPlan struct {
	Date                  Date        `json:"date"`
	Entries               []PlanEntry `json:"entries"`
	TotalEstimatedMinutes int         `json:"total_estimated_minutes"`
}
