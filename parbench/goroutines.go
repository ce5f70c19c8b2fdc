package parbench

import (
	"context"
	"sync"

	"github.com/tymbaca/parbench-go/parbench/metrics"
	"github.com/tymbaca/parbench-go/pkg/caller"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

// SortGoroutines sorts data with one goroutine per segment, all sharing
// the process address space, then k-way merges the sorted segments.
// data is sorted in place segment by segment; callers that need the
// original order must pass a copy. The sample covers dispatch through
// merge, taken once after the join barrier.
func SortGoroutines(ctx context.Context, data []int64, workers int) ([]int64, metrics.Sample, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	segments, err := Partition(ctx, data, workers)
	if err != nil {
		return nil, metrics.Sample{}, err
	}

	runs := make([][]int64, len(segments))

	sw := metrics.Begin()

	var wg sync.WaitGroup
	for i, seg := range segments {
		forkSorter(&wg, i, seg, runs)
	}
	// Join barrier: no run slot is read until every worker finished.
	wg.Wait()

	result := MergeSorted(ctx, runs)
	sample := sw.Sample()

	return result, sample, nil
}

// MaxGoroutines computes the maximum of data with one goroutine per
// segment. Each worker reduces its segment locally, then
// compare-and-updates the shared accumulator under its mutex. After the
// join barrier the accumulator holds the maximum of the whole input.
func MaxGoroutines(ctx context.Context, data []int64, workers int) (int64, metrics.Sample, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	if len(data) == 0 {
		return 0, metrics.Sample{}, ErrEmptyInput
	}

	segments, err := Partition(ctx, data, workers)
	if err != nil {
		return 0, metrics.Sample{}, err
	}

	acc := newMaxAccumulator()

	sw := metrics.Begin()

	var wg sync.WaitGroup
	for i, seg := range segments {
		forkMaxer(&wg, i, seg, acc)
	}
	wg.Wait()

	sample := sw.Sample()

	return acc.value(), sample, nil
}
