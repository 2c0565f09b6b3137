package voxdata

import (
	"errors"
	"fmt"
)

// StreamSpec describes one stream of a composite dataset.
type StreamSpec struct {
	// Source is either an already-open Reader or a string path prefix.
	// Prefixes are opened by the Dataset. Either way the Dataset takes
	// ownership: Close closes every underlying reader.
	Source any

	// DType is the element type records decode to.
	DType DType

	// Shape is the per-record array shape; one dimension may be -1 and is
	// inferred from the record length. Nil means flat 1-D.
	Shape []int

	// Dup is the duplication factor: composite index k reads record
	// k/Dup of this stream. 0 is treated as 1. Callers must size streams
	// consistently (len(stream) ≈ len(stream 0)/Dup); this is not checked
	// at construction, but inconsistent factors surface as out-of-range
	// errors at access time rather than as misdecoded records.
	Dup int
}

type stream struct {
	reader Reader
	dtype  DType
	shape  []int
	dup    int
}

// Dataset aligns several parallel record stores into a single logical view:
// item k is the tuple of per-stream arrays decoded from record k (scaled by
// each stream's duplication factor).
type Dataset struct {
	streams []stream
	logger  *Logger
}

// NewDataset builds a composite dataset from the given streams. At least one
// stream is required; the first stream defines the dataset length. Prefix
// sources are opened with the same options passed here; if any open fails,
// streams opened so far are closed again.
func NewDataset(specs []StreamSpec, opts ...Option) (*Dataset, error) {
	if len(specs) == 0 {
		return nil, errors.New("voxdata: dataset needs at least one stream")
	}
	o := applyOptions(opts)

	ds := &Dataset{streams: make([]stream, 0, len(specs)), logger: o.logger}
	for i, spec := range specs {
		dup := spec.Dup
		if dup <= 0 {
			dup = 1
		}
		if spec.DType.Size() == 0 {
			_ = ds.Close()
			return nil, fmt.Errorf("voxdata: stream %d: invalid dtype %d", i, int(spec.DType))
		}

		s := stream{dtype: spec.DType, shape: spec.Shape, dup: dup}
		switch src := spec.Source.(type) {
		case Reader:
			s.reader = src
		case string:
			r, err := Open(src, opts...)
			if err != nil {
				_ = ds.Close()
				return nil, fmt.Errorf("voxdata: stream %d: %w", i, err)
			}
			s.reader = r
		default:
			_ = ds.Close()
			return nil, fmt.Errorf("voxdata: stream %d: source must be a Reader or a string prefix, got %T", i, spec.Source)
		}
		ds.streams = append(ds.streams, s)
	}
	return ds, nil
}

// Len returns the logical dataset length: the record count of stream 0.
func (d *Dataset) Len() int {
	return d.streams[0].reader.Len()
}

// At returns item i as one decoded array per stream.
func (d *Dataset) At(i int) ([]Array, error) {
	out := make([]Array, len(d.streams))
	for s, st := range d.streams {
		raw, err := st.reader.At(i / st.dup)
		if err != nil {
			return nil, fmt.Errorf("voxdata: stream %d: %w", s, err)
		}
		arr, err := newArray(raw, st.dtype, st.shape)
		if err != nil {
			return nil, fmt.Errorf("voxdata: stream %d, record %d: %w", s, i/st.dup, err)
		}
		out[s] = arr
	}
	return out, nil
}

// Close closes every underlying reader. Cleanup is best-effort: a failing
// stream never prevents closing the remaining ones, and all failures are
// reported together.
func (d *Dataset) Close() error {
	var errs []error
	for s, st := range d.streams {
		if err := st.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("voxdata: close stream %d: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
