package parbench

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/tymbaca/parbench-go/parbench/metrics"
)

func TestMain(m *testing.M) {
	// The process executors re-exec this test binary as their workers.
	MaybeWorker()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	os.Exit(m.Run())
}

type executorPair struct {
	sort func(context.Context, []int64, int) ([]int64, metrics.Sample, error)
	max  func(context.Context, []int64, int) (int64, metrics.Sample, error)
}

var executors = map[string]executorPair{
	"goroutines": {sort: SortGoroutines, max: MaxGoroutines},
	"processes":  {sort: SortProcesses, max: MaxProcesses},
}

func randomData(n int) []int64 {
	faker := gofakeit.New(42)
	data := make([]int64, n)
	for i := range data {
		data[i] = int64(faker.IntRange(-1_000_000, 1_000_000))
	}
	return data
}

func TestSortCorrectness(t *testing.T) {
	ctx := context.Background()
	data := randomData(500)

	for name, ex := range executors {
		for _, k := range []int{1, 2, 4, 8} {
			t.Run(fmt.Sprintf("%s/k=%d", name, k), func(t *testing.T) {
				result, sample, err := ex.sort(ctx, slices.Clone(data), k)
				require.NoError(t, err)
				require.Len(t, result, len(data))
				require.True(t, slices.IsSorted(result))
				require.Equal(t, Fingerprint(data), Fingerprint(result))
				require.GreaterOrEqual(t, sample.ElapsedSeconds, 0.0)
			})
		}
	}
}

func TestMaxCorrectness(t *testing.T) {
	ctx := context.Background()
	data := randomData(500)
	want := slices.Max(data)

	for name, ex := range executors {
		for _, k := range []int{1, 2, 4, 8} {
			t.Run(fmt.Sprintf("%s/k=%d", name, k), func(t *testing.T) {
				result, _, err := ex.max(ctx, slices.Clone(data), k)
				require.NoError(t, err)
				require.Equal(t, want, result)
			})
		}
	}
}

// k=1 must behave exactly like a sequential sort/max of the whole input.
func TestSingleWorkerMatchesSequential(t *testing.T) {
	ctx := context.Background()
	data := randomData(100)

	wantSorted := slices.Clone(data)
	slices.Sort(wantSorted)
	wantMax := slices.Max(data)

	for name, ex := range executors {
		t.Run(name, func(t *testing.T) {
			sorted, _, err := ex.sort(ctx, slices.Clone(data), 1)
			require.NoError(t, err)
			require.Equal(t, wantSorted, sorted)

			max, _, err := ex.max(ctx, slices.Clone(data), 1)
			require.NoError(t, err)
			require.Equal(t, wantMax, max)
		})
	}
}

func TestMoreWorkersThanElements(t *testing.T) {
	ctx := context.Background()
	data := []int64{3, 1, 2}

	for name, ex := range executors {
		t.Run(name, func(t *testing.T) {
			sorted, _, err := ex.sort(ctx, slices.Clone(data), 8)
			require.NoError(t, err)
			require.Equal(t, []int64{1, 2, 3}, sorted)

			max, _, err := ex.max(ctx, slices.Clone(data), 8)
			require.NoError(t, err)
			require.Equal(t, int64(3), max)
		})
	}
}

func TestConcreteScenario(t *testing.T) {
	ctx := context.Background()
	data := []int64{5, -3, 9, 9, 0}

	for name, ex := range executors {
		t.Run(name, func(t *testing.T) {
			sorted, _, err := ex.sort(ctx, slices.Clone(data), 2)
			require.NoError(t, err)
			require.Equal(t, []int64{-3, 0, 5, 9, 9}, sorted)

			max, _, err := ex.max(ctx, slices.Clone(data), 2)
			require.NoError(t, err)
			require.Equal(t, int64(9), max)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	ctx := context.Background()

	for name, ex := range executors {
		t.Run(name, func(t *testing.T) {
			sorted, _, err := ex.sort(ctx, nil, 4)
			require.NoError(t, err)
			require.Empty(t, sorted)

			_, _, err = ex.max(ctx, nil, 4)
			require.ErrorIs(t, err, ErrEmptyInput)
		})
	}
}

func TestInvalidWorkerCount(t *testing.T) {
	ctx := context.Background()
	data := []int64{1, 2, 3}

	for name, ex := range executors {
		t.Run(name, func(t *testing.T) {
			_, _, err := ex.sort(ctx, slices.Clone(data), 0)
			require.ErrorIs(t, err, ErrInvalidWorkers)

			_, _, err = ex.max(ctx, slices.Clone(data), 0)
			require.ErrorIs(t, err, ErrInvalidWorkers)
		})
	}
}

// All-negative input must survive the MinInt64 sentinel: empty segments
// from k > n may not drag the maximum down.
func TestMaxAllNegative(t *testing.T) {
	ctx := context.Background()
	data := []int64{-7, -3, -12}

	for name, ex := range executors {
		t.Run(name, func(t *testing.T) {
			max, _, err := ex.max(ctx, slices.Clone(data), 8)
			require.NoError(t, err)
			require.Equal(t, int64(-3), max)
		})
	}
}
