package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxkit/voxdata"
	"github.com/voxkit/voxdata/internal/fs"
)

// mapSource serves objects from memory.
type mapSource map[string][]byte

func (m mapSource) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	b, ok := m[name]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m mapSource) String() string { return "mem" }

// buildStore writes a small store and returns its raw file contents.
func buildStore(t *testing.T, records [][]byte) (idx, bin []byte) {
	t.Helper()
	prefix := filepath.Join(t.TempDir(), "src")
	w, err := voxdata.Create(prefix)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())

	idx, err = os.ReadFile(prefix + ".idx")
	require.NoError(t, err)
	bin, err = os.ReadFile(prefix + ".bin")
	require.NoError(t, err)
	return idx, bin
}

func verifyStore(t *testing.T, prefix string, records [][]byte) {
	t.Helper()
	r, err := voxdata.Open(prefix)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, len(records), r.Len())
	for i, want := range records {
		got, err := r.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "record %d", i)
	}
}

func gzipBytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(b)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func lz4Bytes(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write(b)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var testRecords = [][]byte{[]byte("ab"), {}, []byte("xyz")}

func TestDownloadPlain(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	src := mapSource{"mel.idx": idx, "mel.bin": bin}

	dest := filepath.Join(t.TempDir(), "mel")
	require.NoError(t, Download(context.Background(), src, "mel", dest))
	verifyStore(t, dest, testRecords)
}

func TestDownloadGzip(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	src := mapSource{
		"mel.idx.gz": gzipBytes(t, idx),
		"mel.bin.gz": gzipBytes(t, bin),
	}

	dest := filepath.Join(t.TempDir(), "mel")
	require.NoError(t, Download(context.Background(), src, "mel", dest))
	verifyStore(t, dest, testRecords)
}

func TestDownloadLZ4(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	src := mapSource{
		"mel.idx.lz4": lz4Bytes(t, idx),
		"mel.bin.lz4": lz4Bytes(t, bin),
	}

	dest := filepath.Join(t.TempDir(), "mel")
	require.NoError(t, Download(context.Background(), src, "mel", dest))
	verifyStore(t, dest, testRecords)
}

func TestDownloadMixedEncodings(t *testing.T) {
	// Plain index next to a compressed data file.
	idx, bin := buildStore(t, testRecords)
	src := mapSource{
		"mel.idx":    idx,
		"mel.bin.gz": gzipBytes(t, bin),
	}

	dest := filepath.Join(t.TempDir(), "mel")
	require.NoError(t, Download(context.Background(), src, "mel", dest))
	verifyStore(t, dest, testRecords)
}

func TestDownloadCreatesDestDir(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	src := mapSource{"mel.idx": idx, "mel.bin": bin}

	// The destination directory does not exist yet.
	dest := filepath.Join(t.TempDir(), "corpus", "v1", "mel")
	require.NoError(t, Download(context.Background(), src, "mel", dest))
	verifyStore(t, dest, testRecords)
}

func TestDownloadMissingObject(t *testing.T) {
	idx, _ := buildStore(t, testRecords)
	src := mapSource{"mel.idx": idx} // no data file under any suffix

	dest := filepath.Join(t.TempDir(), "mel")
	err := Download(context.Background(), src, "mel", dest)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadLeavesNoPartialFiles(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	src := mapSource{"mel.idx": idx, "mel.bin": bin}

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".bin.partial", fs.Fault{FailAfterBytes: 2})

	dest := filepath.Join(t.TempDir(), "mel")
	err := Download(context.Background(), src, "mel", dest, WithFileSystem(ffs))
	require.Error(t, err)

	_, statErr := os.Stat(dest + ".bin")
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dest + ".bin.partial")
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadRateLimited(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	src := mapSource{"mel.idx": idx, "mel.bin": bin}

	dest := filepath.Join(t.TempDir(), "mel")
	// Generous limit; verifies the throttled path end to end.
	require.NoError(t, Download(context.Background(), src, "mel", dest, WithRateLimit(1<<20)))
	verifyStore(t, dest, testRecords)
}

func TestHTTPSource(t *testing.T) {
	idx, bin := buildStore(t, testRecords)
	files := map[string][]byte{
		"/corpus/mel.idx":    idx,
		"/corpus/mel.bin.gz": gzipBytes(t, bin),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/corpus", srv.Client())
	dest := filepath.Join(t.TempDir(), "mel")
	require.NoError(t, Download(context.Background(), src, "mel", dest))
	verifyStore(t, dest, testRecords)

	err := Download(context.Background(), src, "other", filepath.Join(t.TempDir(), "other"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSourceStrings(t *testing.T) {
	assert.Equal(t, "https://mirror.example.com/v1", NewHTTPSource("https://mirror.example.com/v1/", nil).String())
	assert.Equal(t, "s3://corpora/lj/v1", NewS3Source(nil, "corpora", "lj/v1").String())
	assert.Equal(t, "minio://corpora/lj/v1", NewMinIOSource(nil, "corpora", "lj/v1").String())
}
