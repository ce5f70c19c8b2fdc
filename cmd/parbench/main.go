package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/tymbaca/parbench-go/parbench"
	"github.com/tymbaca/parbench-go/parbench/metrics"
	"github.com/tymbaca/parbench-go/parbench/storage"
	bboltstore "github.com/tymbaca/parbench-go/parbench/storage/bbolt"
	"github.com/tymbaca/parbench-go/parbench/storage/inmemory"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

func main() {
	// Must come first: in a worker process nothing below runs.
	parbench.MaybeWorker()

	dbPath := flag.String("db", "", "bbolt file for run history (in-memory only when empty)")
	otelEndpoint := flag.String("otel", "", "OTLP HTTP endpoint for traces (disabled when empty)")
	seed := flag.Uint64("seed", 42, "input generator seed")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *otelEndpoint != "" {
		if err := tracer.Init(*otelEndpoint); err != nil {
			slog.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var store storage.Storage = inmemory.New()
	if *dbPath != "" {
		st, err := bboltstore.New(*dbPath)
		if err != nil {
			slog.Error("open run history failed", "err", err, "path", *dbPath)
			os.Exit(1)
		}
		defer st.Close()
		store = st
	}

	exps := &experiments{
		sizes:  []int{32, 131072},
		counts: []int{1, 2, 4, 8},
		faker:  gofakeit.New(*seed),
		store:  store,
		out:    os.Stdout,
	}

	if err := exps.run(ctx); err != nil {
		slog.Error("experiments failed", "err", err)
		os.Exit(1)
	}

	if err := exps.summarize(ctx); err != nil {
		slog.Error("summary failed", "err", err)
		os.Exit(1)
	}
}

type experiments struct {
	sizes  []int
	counts []int
	faker  *gofakeit.Faker
	store  storage.Storage
	out    io.Writer
}

// run executes the full grid: for each input size, every worker count
// under both scheduling models, first the sort workload, then max. One
// input per size, reused (copied) across all of that size's runs.
func (e *experiments) run(ctx context.Context) error {
	fmt.Fprintln(e.out, "=== MapReduce Parallel Sorting ===")
	for _, n := range e.sizes {
		data := e.randomInts(n)
		e.printHeader(n)
		for _, w := range e.counts {
			for _, mode := range []parbench.Mode{parbench.ModeGoroutines, parbench.ModeProcesses} {
				if err := e.sortRun(ctx, data, w, mode); err != nil {
					return fmt.Errorf("sort n=%d w=%d %s: %w", n, w, mode, err)
				}
			}
		}
	}

	fmt.Fprintln(e.out, "\n=== Max-Value Aggregation ===")
	for _, n := range e.sizes {
		data := e.randomInts(n)
		e.printHeader(n)
		for _, w := range e.counts {
			for _, mode := range []parbench.Mode{parbench.ModeGoroutines, parbench.ModeProcesses} {
				if err := e.maxRun(ctx, data, w, mode); err != nil {
					return fmt.Errorf("max n=%d w=%d %s: %w", n, w, mode, err)
				}
			}
		}
	}

	return nil
}

func (e *experiments) sortRun(ctx context.Context, data []int64, workers int, mode parbench.Mode) error {
	started := time.Now()

	run := parbench.SortGoroutines
	if mode == parbench.ModeProcesses {
		run = parbench.SortProcesses
	}

	result, sample, err := run(ctx, slices.Clone(data), workers)
	if err != nil {
		return err
	}

	ok := len(result) == len(data) &&
		slices.IsSorted(result) &&
		parbench.Fingerprint(result) == parbench.Fingerprint(data)

	e.printRow(workers, mode, sample, ok)

	return e.record(ctx, parbench.WorkloadSort, mode, len(data), workers, sample, ok, started)
}

func (e *experiments) maxRun(ctx context.Context, data []int64, workers int, mode parbench.Mode) error {
	started := time.Now()

	run := parbench.MaxGoroutines
	if mode == parbench.ModeProcesses {
		run = parbench.MaxProcesses
	}

	result, sample, err := run(ctx, slices.Clone(data), workers)
	if err != nil {
		return err
	}

	ok := result == slices.Max(data)

	e.printRow(workers, mode, sample, ok)

	return e.record(ctx, parbench.WorkloadMax, mode, len(data), workers, sample, ok, started)
}

func (e *experiments) record(ctx context.Context, workload parbench.Workload, mode parbench.Mode, size, workers int, sample metrics.Sample, ok bool, started time.Time) error {
	return e.store.Append(ctx, storage.Run{
		ID:        uuid.New(),
		Workload:  workload,
		Mode:      mode,
		InputSize: size,
		Workers:   workers,
		Sample:    sample,
		Correct:   ok,
		StartedAt: started,
	})
}

func (e *experiments) summarize(ctx context.Context) error {
	runs, err := e.store.List(ctx)
	if err != nil {
		return err
	}

	correct := 0
	for _, run := range runs {
		if run.Correct {
			correct++
		}
	}
	fmt.Fprintf(e.out, "\n%d runs recorded, %d correct\n", len(runs), correct)

	return nil
}

// randomInts draws n values in the original experiment's range.
func (e *experiments) randomInts(n int) []int64 {
	data := make([]int64, n)
	for i := range data {
		data[i] = int64(e.faker.IntRange(-1_000_000, 1_000_000))
	}
	return data
}

func (e *experiments) printHeader(n int) {
	fmt.Fprintf(e.out, "\nInput size: %d\n", n)
	fmt.Fprintf(e.out, "%-8s %-12s %-12s %-10s %-8s\n", "Workers", "Mode", "Time(s)", "Heap(MB)", "Correct")
	fmt.Fprintln(e.out, "------------------------------------------------------------")
}

func (e *experiments) printRow(workers int, mode parbench.Mode, sample metrics.Sample, ok bool) {
	fmt.Fprintf(e.out, "%-8d %-12s %-12.6f %-10.3f %-8t\n", workers, modeLabel(mode), sample.ElapsedSeconds, sample.HeapMB, ok)
}

func modeLabel(mode parbench.Mode) string {
	switch mode {
	case parbench.ModeGoroutines:
		return "Goroutines"
	case parbench.ModeProcesses:
		return "Processes"
	default:
		return string(mode)
	}
}
