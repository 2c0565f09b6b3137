package voxdata

import (
	"encoding/binary"
	"fmt"
)

const indexEntrySize = 8

// parseIndex decodes and validates a raw index file.
//
// Offsets must be monotonically non-decreasing and the final offset must not
// exceed the data file size. A data file strictly larger than the final
// offset is accepted: the writer appends payload before the index entry, so
// an interrupted session can leave trailing unindexed bytes that no indexed
// read ever touches.
func parseIndex(raw []byte, dataSize int64) ([]int64, error) {
	if len(raw)%indexEntrySize != 0 {
		return nil, fmt.Errorf("%w: index size %d is not a multiple of %d", ErrCorruptIndex, len(raw), indexEntrySize)
	}
	offsets := make([]int64, len(raw)/indexEntrySize)
	prev := int64(0)
	for i := range offsets {
		off := int64(binary.LittleEndian.Uint64(raw[i*indexEntrySize:]))
		if off < prev {
			return nil, fmt.Errorf("%w: offset %d at entry %d precedes %d", ErrCorruptIndex, off, i, prev)
		}
		offsets[i] = off
		prev = off
	}
	if n := len(offsets); n > 0 && offsets[n-1] > dataSize {
		return nil, fmt.Errorf("%w: final offset %d exceeds data size %d", ErrCorruptIndex, offsets[n-1], dataSize)
	}
	return offsets, nil
}

// recordRange returns the byte range of record i within the data file.
// Bounds are the caller's responsibility.
func recordRange(offsets []int64, i int) (start, end int64) {
	if i > 0 {
		start = offsets[i-1]
	}
	return start, offsets[i]
}
