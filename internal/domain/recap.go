package domain

import "github.com/google/uuid"

// Focus-minute thresholds for the recap message tiers.
const (
	RecapTierLightMinutes  = 15
	RecapTierSolidMinutes  = 45
	RecapTierStrongMinutes = 90
)

// Carry-over list cap for a recap.
const MaxCarryOverTasks = 5

// CarryOverTask is an open task surfaced in the recap as still needing
// attention tomorrow.
type CarryOverTask struct {
	TaskID       uuid.UUID `json:"task_id"`
	Title        string    `json:"title"`
	Subject      string    `json:"subject,omitempty"`
	DueDate      *Date     `json:"due_date,omitempty"`
	HighPriority bool      `json:"high_priority"`
}

// RecapSummary is the end-of-day digest of a student's activity.
type RecapSummary struct {
	Date              Date            `json:"date"`
	TasksCompleted    int             `json:"tasks_completed"`
	FocusMinutes      int             `json:"focus_minutes"`
	SessionsCompleted int             `json:"sessions_completed"`
	SessionsAbandoned int             `json:"sessions_abandoned"`
	ItemsReviewed     int             `json:"items_reviewed"`
	ReviewPassRate    float64         `json:"review_pass_rate"`
	CarryOver         []CarryOverTask `json:"carry_over"`
	MessageTier       int             `json:"message_tier"`
	Message           string          `json:"message"`
}
