package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/tymbaca/parbench-go/parbench"
	"github.com/tymbaca/parbench-go/parbench/storage/inmemory"
)

func TestMain(m *testing.M) {
	parbench.MaybeWorker()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	os.Exit(m.Run())
}

func TestExperiments(t *testing.T) {
	store := inmemory.New()
	var out bytes.Buffer

	exps := &experiments{
		sizes:  []int{8, 64},
		counts: []int{1, 2, 4},
		faker:  gofakeit.New(42),
		store:  store,
		out:    &out,
	}

	ctx := context.Background()
	require.NoError(t, exps.run(ctx))

	// 2 sizes x 3 worker counts x 2 modes x 2 workloads.
	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 24)
	for _, run := range runs {
		require.True(t, run.Correct, "run %s %s n=%d w=%d", run.Workload, run.Mode, run.InputSize, run.Workers)
	}

	require.Contains(t, out.String(), "=== MapReduce Parallel Sorting ===")
	require.Contains(t, out.String(), "=== Max-Value Aggregation ===")
	require.Contains(t, out.String(), "Goroutines")
	require.Contains(t, out.String(), "Processes")

	require.NoError(t, exps.summarize(ctx))
	require.Contains(t, out.String(), "24 runs recorded, 24 correct")
}

func TestModeLabel(t *testing.T) {
	require.Equal(t, "Goroutines", modeLabel(parbench.ModeGoroutines))
	require.Equal(t, "Processes", modeLabel(parbench.ModeProcesses))
}
