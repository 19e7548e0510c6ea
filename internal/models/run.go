package models

import (
	"time"

	"github.com/google/uuid"
)

// NewGenerationRun creates a running generation run with a generated UUID.
func NewGenerationRun(siteURL string) *GenerationRun {
	return &GenerationRun{
		ID:        uuid.New(),
		SiteURL:   siteURL,
		Status:    RunStatusRunning,
		Files:     []string{},
		StartedAt: time.Now().UTC(),
	}
}

// Finish marks the run completed, or failed when err is non-nil.
func (r *GenerationRun) Finish(err error) {
	now := time.Now().UTC()
	r.FinishedAt = &now
	if err != nil {
		r.Status = RunStatusError
		r.Error = err.Error()
		return
	}
	r.Status = RunStatusCompleted
}

// IsFinished returns true once the run has left the Running state
func (r *GenerationRun) IsFinished() bool {
	return r.Status != RunStatusRunning
}
