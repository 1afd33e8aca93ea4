// Package domain defines the core business entities of the study coach:
// tasks, focus sessions, review items and their spaced-repetition state,
// daily plans, and recap summaries. Entities validate themselves at
// construction; the scheduling and state-transition logic lives in the
// subpackages (planner, focus, srs, recap).
package domain
