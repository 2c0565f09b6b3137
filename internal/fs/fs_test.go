package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "a.bin")

	f, err := Default.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	got, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, Default.Rename(name, name+".2"))
	_, err = os.Stat(name + ".2")
	require.NoError(t, err)
	require.NoError(t, Default.Remove(name+".2"))

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, Default.MkdirAll(nested, 0o755))
	fi, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".bin", Fault{FailAfterBytes: 4})

	f, err := ffs.OpenFile(filepath.Join(dir, "x.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = f.Write([]byte("e"))
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_FailOnCloseAndSync(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("y.bin", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true})

	f, err := ffs.OpenFile(filepath.Join(dir, "y.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.ErrorIs(t, f.Close(), ErrInjected)

	// Files without a matching rule are untouched.
	g, err := ffs.OpenFile(filepath.Join(dir, "z.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.NoError(t, g.Close())
}
