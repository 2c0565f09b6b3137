package voxdata

import (
	"fmt"
	"unsafe"
)

// Array is a record payload reinterpreted as a dense multi-dimensional
// array. Typed accessors return zero-copy views into the record bytes when
// the record start is aligned for the element type; such views stay valid
// only as long as the originating reader is open. Records at misaligned
// data-file offsets are decoded into a fresh slice instead.
type Array struct {
	dtype DType
	shape []int
	raw   []byte
}

// newArray validates that raw can be viewed as dtype elements of the given
// shape. At most one dimension may be -1 and is inferred from the byte
// length; a nil shape means a flat 1-D array.
func newArray(raw []byte, dtype DType, shape []int) (Array, error) {
	elem := dtype.Size()
	if elem == 0 {
		return Array{}, fmt.Errorf("voxdata: invalid dtype %d", int(dtype))
	}
	if len(raw)%elem != 0 {
		return Array{}, &ErrDecode{DType: dtype, Shape: shape, Bytes: len(raw)}
	}
	n := len(raw) / elem

	resolved := make([]int, len(shape))
	wild := -1
	fixed := 1
	for i, d := range shape {
		switch {
		case d == -1 && wild < 0:
			wild = i
		case d > 0:
			fixed *= d
			resolved[i] = d
		default:
			return Array{}, &ErrDecode{DType: dtype, Shape: shape, Bytes: len(raw)}
		}
	}
	switch {
	case len(shape) == 0:
		resolved = []int{n}
	case wild >= 0:
		if n%fixed != 0 {
			return Array{}, &ErrDecode{DType: dtype, Shape: shape, Bytes: len(raw)}
		}
		resolved[wild] = n / fixed
	default:
		if fixed != n {
			return Array{}, &ErrDecode{DType: dtype, Shape: shape, Bytes: len(raw)}
		}
	}
	return Array{dtype: dtype, shape: resolved, raw: raw}, nil
}

// DType returns the element type.
func (a Array) DType() DType { return a.dtype }

// Shape returns the resolved shape (any -1 dimension replaced by its
// inferred extent). The caller must not mutate it.
func (a Array) Shape() []int { return a.shape }

// Elems returns the total number of elements.
func (a Array) Elems() int { return len(a.raw) / a.dtype.Size() }

// Bytes returns the raw element data.
func (a Array) Bytes() []byte { return a.raw }

// view reinterprets the record bytes as []T. Records start at arbitrary
// data-file offsets (prefix sums of record lengths), so the conversion is
// only valid when the start address is a multiple of the element size;
// misaligned records are copied into an aligned allocation instead of
// forming an invalid pointer.
func view[T any](a Array, want DType) ([]T, error) {
	if a.dtype != want {
		return nil, fmt.Errorf("voxdata: array is %s, not %s", a.dtype, want)
	}
	n := a.Elems()
	if n == 0 {
		return nil, nil
	}
	p := unsafe.Pointer(&a.raw[0])
	if uintptr(p)%uintptr(want.Size()) != 0 {
		out := make([]T, n)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(a.raw)), a.raw)
		return out, nil
	}
	return unsafe.Slice((*T)(p), n), nil
}

// Float32s returns the elements as a []float32 view.
func (a Array) Float32s() ([]float32, error) { return view[float32](a, Float32) }

// Float64s returns the elements as a []float64 view.
func (a Array) Float64s() ([]float64, error) { return view[float64](a, Float64) }

// Int64s returns the elements as an []int64 view.
func (a Array) Int64s() ([]int64, error) { return view[int64](a, Int64) }

// Int32s returns the elements as an []int32 view.
func (a Array) Int32s() ([]int32, error) { return view[int32](a, Int32) }

// Int16s returns the elements as an []int16 view.
func (a Array) Int16s() ([]int16, error) { return view[int16](a, Int16) }

// Int8s returns the elements as an []int8 view.
func (a Array) Int8s() ([]int8, error) { return view[int8](a, Int8) }

// Uint8s returns the elements as a []byte view.
func (a Array) Uint8s() ([]byte, error) {
	if a.dtype != Uint8 {
		return nil, fmt.Errorf("voxdata: array is %s, not %s", a.dtype, Uint8)
	}
	return a.raw, nil
}
