package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/tymbaca/parbench-go/parbench/storage"
	"github.com/tymbaca/parbench-go/pkg/caller"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

// Storage keeps run history in process memory. Default for one-shot
// sessions where nothing needs to survive the process.
type Storage struct {
	mu   sync.RWMutex
	runs []storage.Run
}

func New() *Storage {
	return &Storage{}
}

func (st *Storage) Append(ctx context.Context, run storage.Run) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.runs = append(st.runs, run)
	return nil
}

func (st *Storage) List(ctx context.Context) ([]storage.Run, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.RLock()
	defer st.mu.RUnlock()

	return slices.Clone(st.runs), nil
}
