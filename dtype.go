package voxdata

// DType identifies the element type of a stored array.
//
// The store itself is type-agnostic; dtypes only matter when a Dataset
// reinterprets raw record bytes as dense arrays.
type DType int

const (
	Uint8 DType = iota
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
)

// Size returns the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Uint8, Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

func (d DType) String() string {
	switch d {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}
