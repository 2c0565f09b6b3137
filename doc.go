// Package voxdata implements an indexed binary record store for speech
// corpora: pairs of flat files that hold variable-length binary records
// (serialized tensors, token sequences, alignments) with O(1) random access.
//
// A dataset prefix "mel" consists of two files:
//
//	mel.idx  — one little-endian int64 per record: the cumulative byte
//	           offset (end-exclusive prefix sum of record lengths)
//	mel.bin  — the raw concatenation of all record payloads
//
// Record i occupies bytes [idx[i-1], idx[i]) of the data file, with
// idx[-1] taken as 0. The index is small and loaded fully into memory;
// the data file is memory-mapped by default so reads are zero-copy.
//
// # Writing
//
//	w, err := voxdata.Create("data/mel")
//	if err != nil { ... }
//	defer w.Close()
//	for _, rec := range records {
//	    if err := w.Write(rec); err != nil { ... }
//	}
//
// Files are immutable once the writer is closed. Exactly one writer may own
// a prefix at a time; this is a documented precondition, not an enforced
// lock. The writer pair is not replaced atomically — callers that need
// all-or-nothing publication should write to a temporary prefix and rename
// both files on success.
//
// # Reading
//
//	r, err := voxdata.Open("data/mel")                         // mmap, zero-copy
//	r, err := voxdata.Open("data/mel", voxdata.WithPreload())  // fully in RAM
//
// Any number of readers may be open over the same prefix concurrently. Each
// worker process must open its own reader; mappings and descriptors are not
// shared across fork boundaries.
//
// # Composite datasets
//
// Dataset zips several parallel stores sharing an index space into a single
// per-index tuple of typed arrays, with optional per-stream duplication
// factors for streams recorded at coarser granularity:
//
//	ds, err := voxdata.NewDataset([]voxdata.StreamSpec{
//	    {Source: "data/mel", DType: voxdata.Float32, Shape: []int{-1, 64}},
//	    {Source: "data/text", DType: voxdata.Int64, Shape: []int{-1}, Dup: 2},
//	})
//
// The fetch subpackage downloads prepared dataset pairs from S3, MinIO or
// HTTP mirrors.
package voxdata
