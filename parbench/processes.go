package parbench

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tymbaca/parbench-go/parbench/metrics"
	"github.com/tymbaca/parbench-go/parbench/shm"
	"github.com/tymbaca/parbench-go/pkg/caller"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

// SortProcesses sorts data with one memory-isolated worker process per
// segment. Each segment travels to its worker over a pipe and comes
// back sorted; runs[i] always corresponds to segment i, so the merge
// sees the segments in partition order.
func SortProcesses(ctx context.Context, data []int64, workers int) ([]int64, metrics.Sample, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	segments, err := Partition(ctx, data, workers)
	if err != nil {
		return nil, metrics.Sample{}, err
	}

	runs := make([][]int64, len(segments))

	sw := metrics.Begin()

	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range segments {
		g.Go(func() error {
			task := workerTask{
				Workload: WorkloadSort,
				Segment:  seg,
				Trace:    tracer.ToMap(gctx),
			}

			var res workerResult
			if err := spawnWorker(gctx, task, &res); err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}

			runs[i] = res.Sorted
			return nil
		})
	}
	// Wait returns only after every started worker is joined, error or
	// not, so no run slot can be read while a worker is in flight.
	if err := g.Wait(); err != nil {
		return nil, metrics.Sample{}, err
	}

	result := MergeSorted(ctx, runs)
	sample := sw.Sample()

	return result, sample, nil
}

// MaxProcesses computes the maximum of data with one memory-isolated
// worker process per segment. The accumulator and its lock cannot be
// ordinary parent memory: workers would silently update their own
// copies. They live in an explicitly shared mapping (see shm.Cell)
// created before any worker starts, and workers receive its path, never
// a value.
func MaxProcesses(ctx context.Context, data []int64, workers int) (int64, metrics.Sample, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	if len(data) == 0 {
		return 0, metrics.Sample{}, ErrEmptyInput
	}

	segments, err := Partition(ctx, data, workers)
	if err != nil {
		return 0, metrics.Sample{}, err
	}

	cell, err := shm.Create("", noElement)
	if err != nil {
		return 0, metrics.Sample{}, err
	}
	defer cell.Close()

	sw := metrics.Begin()

	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range segments {
		g.Go(func() error {
			task := workerTask{
				Workload: WorkloadMax,
				Segment:  seg,
				CellPath: cell.Path(),
				Trace:    tracer.ToMap(gctx),
			}

			if err := spawnWorker(gctx, task, nil); err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, metrics.Sample{}, err
	}

	sample := sw.Sample()

	// Unlocked read is safe here: the join barrier guarantees no worker
	// is still writing.
	return cell.Load(), sample, nil
}

// spawnWorker re-execs the current binary as an isolated worker, ships
// task over its stdin and, when dst is non-nil, decodes the result from
// its stdout. The worker is waited on in every path: a leaked worker
// could still be mutating the shared cell after we return.
func spawnWorker(ctx context.Context, task workerTask, dst *workerResult) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate binary: %w", err)
	}

	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), workerEnv+"=1")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	encErr := gob.NewEncoder(stdin).Encode(task)
	stdin.Close()

	var decErr error
	if encErr == nil && dst != nil {
		decErr = gob.NewDecoder(stdout).Decode(dst)
	}

	waitErr := cmd.Wait()

	switch {
	case waitErr != nil:
		return fmt.Errorf("%w: worker exited: %v: %s", ErrRunFailed, waitErr, strings.TrimSpace(stderr.String()))
	case encErr != nil:
		return fmt.Errorf("%w: send task: %v", ErrRunFailed, encErr)
	case decErr != nil:
		return fmt.Errorf("%w: read result: %v", ErrRunFailed, decErr)
	}

	return nil
}
