package voxdata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/voxkit/voxdata/internal/fs"
)

// Writer is a scoped write session over an index/data file pair.
//
// Records are appended in call order; the order becomes the record index.
// A Writer must be closed exactly once per session; Close is idempotent.
// Only one writer may own a prefix at a time, and no reader may be opened
// over the prefix until the writer is closed.
type Writer struct {
	prefix string
	idx    fs.File
	bin    fs.File
	total  int64
	count  int
	closed bool
	logger *Logger
}

// Create opens a write session for prefix, creating or truncating
// <prefix>.idx and <prefix>.bin. If either file cannot be created the whole
// session fails and the other file is removed best-effort.
func Create(prefix string, opts ...Option) (*Writer, error) {
	o := applyOptions(opts)

	idx, err := o.fs.OpenFile(prefix+".idx", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("voxdata: create index file: %w", err)
	}
	bin, err := o.fs.OpenFile(prefix+".bin", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		_ = idx.Close()
		_ = o.fs.Remove(prefix + ".idx")
		return nil, fmt.Errorf("voxdata: create data file: %w", err)
	}

	logger := o.logger.WithPrefix(prefix)
	logger.Debug("write session opened")

	return &Writer{prefix: prefix, idx: idx, bin: bin, logger: logger}, nil
}

// Write appends record to the data file and its cumulative end offset to the
// index file. A zero-length record is valid and occupies no payload bytes.
//
// The payload is written before the index entry, so an I/O failure or crash
// mid-call never leaves an index entry referencing bytes that were not
// recorded. Prior successful writes are unaffected by a failure; the session
// must still be closed by the caller.
func (w *Writer) Write(record []byte) error {
	if w.closed {
		return ErrClosed
	}
	if _, err := w.bin.Write(record); err != nil {
		return fmt.Errorf("voxdata: write record %d: %w", w.count, err)
	}
	w.total += int64(len(record))

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(w.total))
	if _, err := w.idx.Write(buf[:]); err != nil {
		return fmt.Errorf("voxdata: write index entry %d: %w", w.count, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.count }

// Offset returns the cumulative payload size in bytes.
func (w *Writer) Offset() int64 { return w.total }

// Close flushes and closes both files. It is idempotent and never stops at
// the first failure: both files are always synced and closed, and all
// failures are reported together.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	files := []struct {
		name string
		f    fs.File
	}{
		{"index", w.idx},
		{"data", w.bin},
	}
	for _, fl := range files {
		if err := fl.f.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("voxdata: sync %s file: %w", fl.name, err))
		}
		if err := fl.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("voxdata: close %s file: %w", fl.name, err))
		}
	}
	w.logger.Debug("write session closed", "records", w.count, "bytes", w.total)
	return errors.Join(errs...)
}
