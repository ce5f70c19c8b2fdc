package parbench

import (
	"container/heap"
	"context"

	"github.com/tymbaca/parbench-go/pkg/caller"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

// MergeSorted merges ascending runs into one ascending slice with a
// k-way heap merge, O(n log k). Every run must already be sorted; empty
// and nil runs are skipped. The result length is the sum of the run
// lengths and holds exactly the runs' elements.
func MergeSorted(ctx context.Context, runs [][]int64) []int64 {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	total := 0
	for _, r := range runs {
		total += len(r)
	}
	out := make([]int64, 0, total)

	h := make(runHeap, 0, len(runs))
	for _, r := range runs {
		if len(r) > 0 {
			h = append(h, r)
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		head := h[0]
		out = append(out, head[0])
		if len(head) > 1 {
			h[0] = head[1:]
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}

	return out
}

// runHeap orders the pending runs by their smallest remaining element.
type runHeap [][]int64

func (h runHeap) Len() int           { return len(h) }
func (h runHeap) Less(i, j int) bool { return h[i][0] < h[j][0] }
func (h runHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *runHeap) Push(x any) { *h = append(*h, x.([]int64)) }

func (h *runHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
