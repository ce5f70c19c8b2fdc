package parbench

import (
	"context"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeSorted(t *testing.T) {
	ctx := context.Background()

	got := MergeSorted(ctx, [][]int64{{-3, 5, 9}, {0, 9}})
	require.Equal(t, []int64{-3, 0, 5, 9, 9}, got)
}

func TestMergeSortedSkipsEmptyRuns(t *testing.T) {
	got := MergeSorted(context.Background(), [][]int64{nil, {1, 4}, {}, {2}, nil})
	require.Equal(t, []int64{1, 2, 4}, got)
}

func TestMergeSortedNoRuns(t *testing.T) {
	require.Empty(t, MergeSorted(context.Background(), nil))
	require.Empty(t, MergeSorted(context.Background(), [][]int64{nil, nil}))
}

// Shuffling the order the runs are handed over must not change the
// merged output.
func TestMergeSortedOrderInvariant(t *testing.T) {
	ctx := context.Background()

	runs := [][]int64{
		{-8, -1, 3, 3},
		{0},
		{},
		{-2, 14, 14, 90},
		{7, 7, 7},
	}
	want := MergeSorted(ctx, runs)

	rng := rand.New(rand.NewSource(1))
	for range 20 {
		shuffled := slices.Clone(runs)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		require.Equal(t, want, MergeSorted(ctx, shuffled))
	}
}

func TestMergeSortedSingleRun(t *testing.T) {
	run := []int64{1, 2, 3}
	got := MergeSorted(context.Background(), [][]int64{run})
	require.Equal(t, run, got)
}
