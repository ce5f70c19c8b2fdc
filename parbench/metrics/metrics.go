// Package metrics samples wall-clock time and live heap usage around a
// single executor invocation. One sample per run, never retried or
// averaged; the values are informational and nothing downstream depends
// on them.
package metrics

import (
	"runtime"
	"time"
)

// Sample is one measurement attached to one run.
type Sample struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	HeapMB         float64 `json:"heap_mb"`
}

// Stopwatch brackets a run: Begin just before dispatch, Sample
// immediately after the join barrier.
type Stopwatch struct {
	start time.Time
}

func Begin() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Sample reads the clock and the runtime's live heap once. Call it
// exactly once, after every worker is joined.
func (s Stopwatch) Sample() Sample {
	elapsed := time.Since(s.start)

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Sample{
		ElapsedSeconds: elapsed.Seconds(),
		HeapMB:         float64(ms.HeapAlloc) / (1 << 20),
	}
}
