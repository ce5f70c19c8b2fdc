package parbench

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/tymbaca/parbench-go/parbench/shm"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

const workerEnv = "PARBENCH_WORKER"

// workerTask is one unit of work shipped to an isolated worker over its
// stdin. CellPath carries the shared accumulator handle for the max
// workload; the segment itself is a copy, since ordinary memory does
// not cross the process boundary. Trace propagates the parent's span
// context.
type workerTask struct {
	Workload Workload
	Segment  []int64
	CellPath string
	Trace    map[string]string
}

// workerResult travels back over the worker's stdout. Only the sort
// workload has a payload to return; the max workload reports through
// the shared cell and its exit status.
type workerResult struct {
	Sorted []int64
}

// MaybeWorker hijacks the process when it was spawned as an isolated
// worker. Call it first thing in main, and in TestMain so test binaries
// can serve as their own workers. It never returns inside a worker
// process.
func MaybeWorker() {
	if os.Getenv(workerEnv) == "" {
		return
	}

	if err := runWorker(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

// runWorker executes exactly one task: decode, compute, report.
func runWorker(in io.Reader, out io.Writer) error {
	var task workerTask
	if err := gob.NewDecoder(in).Decode(&task); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}

	ctx := tracer.FromMap(context.Background(), task.Trace)
	_, span := tracer.Start(ctx, "worker."+string(task.Workload))
	defer span.End()

	switch task.Workload {
	case WorkloadSort:
		slices.Sort(task.Segment)
		if err := gob.NewEncoder(out).Encode(workerResult{Sorted: task.Segment}); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil

	case WorkloadMax:
		cell, err := shm.Open(task.CellPath)
		if err != nil {
			return err
		}
		defer cell.Close()

		return cell.UpdateMax(localMax(task.Segment))

	default:
		return fmt.Errorf("unknown workload %q", task.Workload)
	}
}
