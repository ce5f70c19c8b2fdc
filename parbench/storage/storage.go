// Package storage keeps the history of benchmark runs so sessions can
// be compared after the fact.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tymbaca/parbench-go/parbench"
	"github.com/tymbaca/parbench-go/parbench/metrics"
)

// Run is one recorded benchmark invocation.
type Run struct {
	ID        uuid.UUID         `json:"id"`
	Workload  parbench.Workload `json:"workload"`
	Mode      parbench.Mode     `json:"mode"`
	InputSize int               `json:"input_size"`
	Workers   int               `json:"workers"`
	Sample    metrics.Sample    `json:"sample"`
	Correct   bool              `json:"correct"`
	StartedAt time.Time         `json:"started_at"`
}

// Storage is the run-history store. Append must be safe for concurrent
// use; List returns runs in unspecified order.
type Storage interface {
	Append(ctx context.Context, run Run) error
	List(ctx context.Context) ([]Run, error)
}
