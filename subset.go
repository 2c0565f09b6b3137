package voxdata

import (
	"fmt"
	"io"
	"os"

	"github.com/RoaringBitmap/roaring/v2"
)

// SplitMask is a compressed set of dataset indices, used to carve
// train/validation splits out of a corpus without rewriting store files.
// The zero value is not usable; call NewSplitMask.
type SplitMask struct {
	bm *roaring.Bitmap
}

// NewSplitMask creates an empty mask.
func NewSplitMask() *SplitMask {
	return &SplitMask{bm: roaring.New()}
}

// Add includes index i in the mask. Negative indices are ignored.
func (m *SplitMask) Add(i int) {
	if i >= 0 {
		m.bm.Add(uint32(i))
	}
}

// AddRange includes [lo, hi) in the mask.
func (m *SplitMask) AddRange(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi > lo {
		m.bm.AddRange(uint64(lo), uint64(hi))
	}
}

// Contains reports whether index i is in the mask.
func (m *SplitMask) Contains(i int) bool {
	return i >= 0 && m.bm.Contains(uint32(i))
}

// Cardinality returns the number of indices in the mask.
func (m *SplitMask) Cardinality() int {
	return int(m.bm.GetCardinality())
}

// WriteTo serializes the mask in roaring's portable format.
func (m *SplitMask) WriteTo(w io.Writer) (int64, error) {
	return m.bm.WriteTo(w)
}

// ReadFrom replaces the mask contents with a serialized mask.
func (m *SplitMask) ReadFrom(r io.Reader) (int64, error) {
	return m.bm.ReadFrom(r)
}

// SaveFile writes the mask to path.
func (m *SplitMask) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := m.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadSplitMask reads a mask written by SaveFile.
func LoadSplitMask(path string) (*SplitMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := NewSplitMask()
	if _, err := m.ReadFrom(f); err != nil {
		return nil, err
	}
	return m, nil
}

// Subset is a densely re-indexed view over the items of a Dataset selected
// by a SplitMask. It holds no resources of its own; the parent dataset must
// stay open while the subset is in use.
type Subset struct {
	parent  *Dataset
	indices []uint32
}

// Select returns the view of d restricted to the mask's indices, in
// ascending order. Every mask entry must be within [0, d.Len()).
func (d *Dataset) Select(mask *SplitMask) (*Subset, error) {
	n := d.Len()
	if !mask.bm.IsEmpty() && int(mask.bm.Maximum()) >= n {
		return nil, &ErrOutOfRange{Index: int(mask.bm.Maximum()), Len: n}
	}
	return &Subset{parent: d, indices: mask.bm.ToArray()}, nil
}

// Len returns the number of selected items.
func (s *Subset) Len() int { return len(s.indices) }

// At returns selected item i, decoded exactly as Dataset.At would.
func (s *Subset) At(i int) ([]Array, error) {
	if err := checkBounds(i, len(s.indices)); err != nil {
		return nil, err
	}
	return s.parent.At(int(s.indices[i]))
}

// Complement returns the mask of all n dataset indices not in m, for
// carving the opposite split.
func (m *SplitMask) Complement(n int) *SplitMask {
	out := roaring.New()
	out.AddRange(0, uint64(n))
	out.AndNot(m.bm)
	return &SplitMask{bm: out}
}

// String implements fmt.Stringer.
func (m *SplitMask) String() string {
	return fmt.Sprintf("splitmask(%d items)", m.Cardinality())
}
