package parbench

import (
	"log/slog"
	"slices"
	"sync"
)

// maxAccumulator is the shared cell for the max workload: one value
// guarded by one mutex, constructed by the executor before dispatch and
// passed by pointer to every worker. Never a package-level variable.
type maxAccumulator struct {
	mu  sync.Mutex
	val int64
}

func newMaxAccumulator() *maxAccumulator {
	return &maxAccumulator{val: noElement}
}

// update replaces the current value iff v is strictly greater. The
// operation commutes across interleavings, so worker completion order
// cannot change the final value.
func (a *maxAccumulator) update(v int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if v > a.val {
		a.val = v
	}
}

func (a *maxAccumulator) value() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.val
}

func forkSorter(wg *sync.WaitGroup, id int, segment []int64, runs [][]int64) {
	s := &sorter{
		id:      id,
		segment: segment,
		runs:    runs,
	}

	wg.Add(1)
	go s.run(wg)
}

type sorter struct {
	id      int
	segment []int64
	runs    [][]int64
}

// run sorts the worker's own segment in place and parks it in the
// worker's own slot. Slots are disjoint per worker, so the sort path
// needs no locking.
func (s *sorter) run(wg *sync.WaitGroup) {
	defer wg.Done()

	slices.Sort(s.segment)
	s.runs[s.id] = s.segment

	slog.Debug("sorter: done", "id", s.id, "len", len(s.segment))
}

func forkMaxer(wg *sync.WaitGroup, id int, segment []int64, acc *maxAccumulator) {
	m := &maxer{
		id:      id,
		segment: segment,
		acc:     acc,
	}

	wg.Add(1)
	go m.run(wg)
}

type maxer struct {
	id      int
	segment []int64
	acc     *maxAccumulator
}

func (m *maxer) run(wg *sync.WaitGroup) {
	defer wg.Done()

	local := localMax(m.segment)
	m.acc.update(local)

	slog.Debug("maxer: done", "id", m.id, "local", local)
}

// localMax is the per-segment map step of the max workload. An empty
// segment contributes noElement.
func localMax(segment []int64) int64 {
	local := int64(noElement)
	for _, v := range segment {
		if v > local {
			local = v
		}
	}

	return local
}
