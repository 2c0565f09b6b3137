package voxdata

import (
	"fmt"
	"os"

	"github.com/voxkit/voxdata/internal/mmap"
)

func (p AccessPattern) mmapPattern() mmap.AccessPattern {
	switch p {
	case AccessSequential:
		return mmap.AccessSequential
	case AccessRandom:
		return mmap.AccessRandom
	case AccessWillNeed:
		return mmap.AccessWillNeed
	default:
		return mmap.AccessDefault
	}
}

// mappedReader loads the index eagerly and maps the data file, deferring
// page loads to first access of each byte range.
type mappedReader struct {
	offsets []int64
	mapping *mmap.Mapping
	closed  bool
}

func openMapped(prefix string, o options) (*mappedReader, error) {
	rawIdx, err := os.ReadFile(prefix + ".idx")
	if err != nil {
		return nil, fmt.Errorf("voxdata: open index file: %w", err)
	}
	m, err := mmap.Open(prefix + ".bin")
	if err != nil {
		return nil, fmt.Errorf("voxdata: map data file: %w", err)
	}
	offsets, err := parseIndex(rawIdx, int64(m.Size()))
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if err := m.Advise(o.advise.mmapPattern()); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("voxdata: advise data mapping: %w", err)
	}
	o.logger.WithPrefix(prefix).Debug("reader opened", "variant", "mmap", "records", len(offsets), "bytes", m.Size())
	return &mappedReader{offsets: offsets, mapping: m}, nil
}

func (r *mappedReader) Len() int { return len(r.offsets) }

// At returns a view into the mapping; no bytes are copied.
func (r *mappedReader) At(i int) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if err := checkBounds(i, len(r.offsets)); err != nil {
		return nil, err
	}
	start, end := recordRange(r.offsets, i)
	return r.mapping.Bytes()[start:end], nil
}

// Close unmaps the data file. Views returned by At become invalid.
func (r *mappedReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.mapping.Close()
}
