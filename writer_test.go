package voxdata

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxkit/voxdata/internal/fs"
)

func writeRecords(t *testing.T, prefix string, records [][]byte) {
	t.Helper()
	w, err := Create(prefix)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
}

func TestWriterConcreteScenario(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")
	writeRecords(t, prefix, [][]byte{[]byte("ab"), {}, []byte("xyz")})

	bin, err := os.ReadFile(prefix + ".bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("abxyz"), bin)

	idx, err := os.ReadFile(prefix + ".idx")
	require.NoError(t, err)
	require.Len(t, idx, 24)
	for i, want := range []int64{2, 2, 5} {
		got := int64(binary.LittleEndian.Uint64(idx[i*8:]))
		assert.Equal(t, want, got, "index entry %d", i)
	}
}

func TestWriterIndexIsPrefixSum(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")
	records := [][]byte{
		make([]byte, 3),
		make([]byte, 0),
		make([]byte, 17),
		make([]byte, 1),
	}

	w, err := Create(prefix)
	require.NoError(t, err)
	var sum int64
	for i, rec := range records {
		require.NoError(t, w.Write(rec))
		sum += int64(len(rec))
		assert.Equal(t, i+1, w.Count())
		assert.Equal(t, sum, w.Offset())
	}
	require.NoError(t, w.Close())

	idx, err := os.ReadFile(prefix + ".idx")
	require.NoError(t, err)
	require.Len(t, idx, len(records)*8)

	sum = 0
	for i, rec := range records {
		sum += int64(len(rec))
		got := int64(binary.LittleEndian.Uint64(idx[i*8:]))
		assert.Equal(t, sum, got, "index entry %d", i)
	}
}

func TestWriterCreateTruncatesExisting(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")
	writeRecords(t, prefix, [][]byte{[]byte("old content here")})
	writeRecords(t, prefix, [][]byte{[]byte("new")})

	bin, err := os.ReadFile(prefix + ".bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), bin)

	idx, err := os.ReadFile(prefix + ".idx")
	require.NoError(t, err)
	assert.Len(t, idx, 8)
}

func TestWriterCreateFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "store")

	// A directory squatting on the data file name makes its creation fail.
	require.NoError(t, os.Mkdir(prefix+".bin", 0o755))

	_, err := Create(prefix)
	require.Error(t, err)

	// The index file created first must not be left behind.
	_, err = os.Stat(prefix + ".idx")
	assert.True(t, os.IsNotExist(err))
}

func TestWriterCreateFailsInMissingDir(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "no", "such", "dir", "store"))
	assert.Error(t, err)
}

func TestWriterWriteFailureKeepsIndexConsistent(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".bin", fs.Fault{FailAfterBytes: 4})

	w, err := Create(prefix, WithFileSystem(ffs))
	require.NoError(t, err)

	require.NoError(t, w.Write([]byte("abcd")))
	err = w.Write([]byte("efgh"))
	require.ErrorIs(t, err, fs.ErrInjected)

	// Failed write leaves no index entry behind.
	assert.Equal(t, 1, w.Count())
	require.NoError(t, w.Close())

	r, err := Open(prefix)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 1, r.Len())
	got, err := r.At(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), got)
}

func TestWriterWriteAfterClose(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")
	w, err := Create(prefix)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Write([]byte("x")), ErrClosed)

	// Close is idempotent.
	assert.NoError(t, w.Close())
}

func TestWriterCloseCollectsAllErrors(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".idx", fs.Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule(".bin", fs.Fault{FailAfterBytes: -1, FailOnSync: true})

	w, err := Create(prefix, WithFileSystem(ffs))
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("abc")))

	err = w.Close()
	require.Error(t, err)
	// Both the index close failure and the data sync failure are reported.
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Contains(t, err.Error(), "index")
	assert.Contains(t, err.Error(), "data")
}

func TestWriterEmptySession(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "store")
	writeRecords(t, prefix, nil)

	for _, variant := range []Option{nil, WithPreload()} {
		var opts []Option
		if variant != nil {
			opts = append(opts, variant)
		}
		r, err := Open(prefix, opts...)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Len())
		require.NoError(t, r.Close())
	}
}
