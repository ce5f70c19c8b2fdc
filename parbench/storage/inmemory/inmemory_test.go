package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tymbaca/parbench-go/parbench"
	"github.com/tymbaca/parbench-go/parbench/metrics"
	"github.com/tymbaca/parbench-go/parbench/storage"
)

func TestInmemory(t *testing.T) {
	ctx := context.Background()
	st := New()

	runs, err := st.List(ctx)
	require.NoError(t, err)
	require.Empty(t, runs)

	run := storage.Run{
		ID:        uuid.New(),
		Workload:  parbench.WorkloadSort,
		Mode:      parbench.ModeGoroutines,
		InputSize: 32,
		Workers:   4,
		Sample:    metrics.Sample{ElapsedSeconds: 0.001, HeapMB: 1.5},
		Correct:   true,
		StartedAt: time.Now(),
	}
	require.NoError(t, st.Append(ctx, run))

	runs, err = st.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, run, runs[0])

	// List hands out a copy; mutating it must not corrupt the store.
	runs[0].Correct = false
	runs, err = st.List(ctx)
	require.NoError(t, err)
	require.True(t, runs[0].Correct)
}
