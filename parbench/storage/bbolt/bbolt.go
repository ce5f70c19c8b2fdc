package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tymbaca/parbench-go/parbench/storage"
	"github.com/tymbaca/parbench-go/pkg/caller"
	"github.com/tymbaca/parbench-go/pkg/tracer"
)

var runsBucket = []byte("runs")

// Storage records run history in a bbolt file, keyed by run ID.
type Storage struct {
	db *bbolt.DB
}

func New(path string) (*Storage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}

	return &Storage{db: db}, nil
}

func (st *Storage) Append(ctx context.Context, run storage.Run) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, err)
	}

	return st.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(run.ID.String()), data)
	})
}

func (st *Storage) List(ctx context.Context) ([]storage.Run, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	var runs []storage.Run
	err := st.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(_, v []byte) error {
			var run storage.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// Close must be called to release the database file.
func (st *Storage) Close() error {
	return st.db.Close()
}
