// Package shm provides a single integer cell shared between cooperating
// processes on one machine: an 8-byte file-backed MAP_SHARED mapping
// plus an advisory file lock for cross-process mutual exclusion.
//
// The parent creates the cell before spawning workers and hands each
// worker the path; workers Open it. The path is the only thing that
// crosses the isolation boundary — every process maps the same file, so
// a store in one is visible in all.
package shm

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const cellSize = 8

// Cell is a shared int64.
type Cell struct {
	f     *os.File
	data  []byte
	owner bool
}

// Create allocates the backing file in dir (the system temp dir when
// empty), maps it and stores init. The creating process removes the
// file on Close.
func Create(dir string, init int64) (*Cell, error) {
	f, err := os.CreateTemp(dir, "parbench-cell-*")
	if err != nil {
		return nil, fmt.Errorf("create cell file: %w", err)
	}

	if err := f.Truncate(cellSize); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("size cell file: %w", err)
	}

	c, err := mapCell(f, true)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}

	c.store(init)
	return c, nil
}

// Open maps an existing cell by path. This is the worker side of the
// handoff.
func Open(path string) (*Cell, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open cell file: %w", err)
	}

	return mapCell(f, false)
}

func mapCell(f *os.File, owner bool) (*Cell, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, cellSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap cell: %w", err)
	}

	return &Cell{f: f, data: data, owner: owner}, nil
}

// Path is the handle workers use to Open the same cell.
func (c *Cell) Path() string {
	return c.f.Name()
}

// Load reads the current value without locking. Only safe while holding
// the lock, or once all writers are known to have finished.
func (c *Cell) Load() int64 {
	return int64(binary.LittleEndian.Uint64(c.data))
}

func (c *Cell) store(v int64) {
	binary.LittleEndian.PutUint64(c.data, uint64(v))
}

// UpdateMax stores v iff it exceeds the current value. The
// read-compare-write runs under an exclusive advisory lock on the
// backing file, so it is atomic across processes. If a process dies
// while holding the lock the kernel releases it with the fd, but a torn
// update from such a death is not repaired.
func (c *Cell) UpdateMax(v int64) error {
	fd := int(c.f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock cell: %w", err)
	}
	defer unix.Flock(fd, unix.LOCK_UN)

	if v > c.Load() {
		c.store(v)
	}

	return nil
}

// Close unmaps the cell. The creating process also removes the backing
// file, invalidating the path for everyone.
func (c *Cell) Close() error {
	err := unix.Munmap(c.data)
	c.data = nil

	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	if c.owner {
		if rerr := os.Remove(c.f.Name()); err == nil {
			err = rerr
		}
	}

	return err
}
