package models

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunStatusRunning   = "Running"
	RunStatusCompleted = "Completed"
	RunStatusError     = "Error"
)

type GenerationRun struct {
	ID            uuid.UUID  `json:"id"`
	SiteURL       string     `json:"siteUrl"`
	Status        string     `json:"status"`
	URLCount      int        `json:"urlCount"`
	ExcludedCount int        `json:"excludedCount"`
	Files         []string   `json:"files"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"startedAt"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
}
