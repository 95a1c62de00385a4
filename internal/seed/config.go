// Package seed fills a running board with generated drafts over HTTP and
// verifies the ranking it serves back.
package seed

import (
	"time"

	"github.com/okian/arena/internal/domain/model"
)

// Config holds configuration for a seed run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Fill       float64       // Fraction of layout slots to fill, 0..1
	Seed       uint64        // Generator seed; equal seeds produce equal drafts
	Verify     bool          // Recompute scores locally with the stock calculator
	OutputFile string        // Where to write the generated drafts, empty to skip
	Verbose    bool          // Log every saved slot
}

// Job is one draft bound for one slot.
type Job struct {
	Group string      `json:"group"`
	Index int         `json:"index"`
	Draft model.Draft `json:"draft"`
}

// Key returns the slot the job targets.
func (j Job) Key() model.SlotKey {
	return model.SlotKey{Group: j.Group, Index: j.Index}
}

// Stats holds run statistics.
type Stats struct {
	Slots     int
	Generated int
	Saved     int
	Failed    int
	Ranked    int
	TopScore  int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
