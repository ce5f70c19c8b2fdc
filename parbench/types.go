package parbench

import (
	"errors"
	"math"
)

// Workload selects the per-segment computation a worker performs.
type Workload string

const (
	WorkloadSort Workload = "sort"
	WorkloadMax  Workload = "max"
)

// Mode names the scheduling model a run used.
type Mode string

const (
	ModeGoroutines Mode = "goroutines"
	ModeProcesses  Mode = "processes"
)

// noElement is the contribution of an empty segment to the max
// accumulator. It is below every valid element, so it can never win
// against a nonempty peer segment.
const noElement = math.MinInt64

var (
	// ErrInvalidWorkers is returned when a run asks for fewer than one worker.
	ErrInvalidWorkers = errors.New("parbench: worker count must be at least 1")

	// ErrEmptyInput is returned by the max workload when the input is
	// empty. There is no maximum of nothing, and returning the sentinel
	// would pass off an implementation detail as a result.
	ErrEmptyInput = errors.New("parbench: no maximum of empty input")

	// ErrRunFailed wraps any abnormal worker termination. The whole
	// invocation aborts; there is no partial-result recovery.
	ErrRunFailed = errors.New("parbench: run failed")
)
