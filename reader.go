package voxdata

import (
	"fmt"
	"os"
)

// Reader provides O(1) random access to the records of one store.
//
// Implementations are safe for use from a single goroutine; open as many
// independent readers as there are workers. The backing files are immutable
// once written, which is what makes unsynchronized concurrent readers safe.
type Reader interface {
	// Len returns the number of records.
	Len() int
	// At returns the payload of record i. The returned slice may alias
	// internal or memory-mapped storage and is valid until Close; callers
	// that retain it must copy. Fails with *ErrOutOfRange when i is
	// outside [0, Len).
	At(i int) ([]byte, error)
	// Close releases the data file mapping, if any. Idempotent.
	Close() error
}

// Open opens a reader over <prefix>.idx and <prefix>.bin.
//
// The default variant loads the index eagerly and memory-maps the data file
// so At returns zero-copy views. WithPreload selects a variant that loads
// both files fully into memory instead.
func Open(prefix string, opts ...Option) (Reader, error) {
	o := applyOptions(opts)
	if o.preload {
		return openPreload(prefix, o)
	}
	return openMapped(prefix, o)
}

func checkBounds(i, n int) error {
	if i < 0 || i >= n {
		return &ErrOutOfRange{Index: i, Len: n}
	}
	return nil
}

// preloadReader holds both files fully in memory and keeps no open handle.
type preloadReader struct {
	offsets []int64
	data    []byte
}

func openPreload(prefix string, o options) (*preloadReader, error) {
	rawIdx, err := os.ReadFile(prefix + ".idx")
	if err != nil {
		return nil, fmt.Errorf("voxdata: open index file: %w", err)
	}
	data, err := os.ReadFile(prefix + ".bin")
	if err != nil {
		return nil, fmt.Errorf("voxdata: open data file: %w", err)
	}
	offsets, err := parseIndex(rawIdx, int64(len(data)))
	if err != nil {
		return nil, err
	}
	o.logger.WithPrefix(prefix).Debug("reader opened", "variant", "preload", "records", len(offsets), "bytes", len(data))
	return &preloadReader{offsets: offsets, data: data}, nil
}

func (r *preloadReader) Len() int { return len(r.offsets) }

func (r *preloadReader) At(i int) ([]byte, error) {
	if err := checkBounds(i, len(r.offsets)); err != nil {
		return nil, err
	}
	start, end := recordRange(r.offsets, i)
	return r.data[start:end], nil
}

// Close is a no-op: no handle is held after load.
func (r *preloadReader) Close() error { return nil }
