package voxdata

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when an operation is attempted on a closed
	// writer or reader.
	ErrClosed = errors.New("voxdata: closed")

	// ErrCorruptIndex indicates that an index file failed validation at
	// open time (bad length, non-monotonic offsets, or offsets past the
	// end of the data file).
	ErrCorruptIndex = errors.New("voxdata: corrupt index")
)

// ErrOutOfRange indicates a record index outside [0, Len).
type ErrOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("record index out of range: %d (len=%d)", e.Index, e.Len)
}

// ErrDecode indicates that a record's byte length is incompatible with the
// requested element type and shape reinterpretation.
type ErrDecode struct {
	DType DType
	Shape []int
	Bytes int
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %d bytes as %s array of shape %v", e.Bytes, e.DType, e.Shape)
}
