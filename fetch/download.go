package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/voxkit/voxdata"
	"github.com/voxkit/voxdata/internal/fs"
)

type options struct {
	fsys    fs.FileSystem
	logger  *voxdata.Logger
	limiter *rate.Limiter
}

// Option configures Download.
type Option func(*options)

// WithFileSystem overrides the file system downloads are written to.
// Intended for tests.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(logger *voxdata.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRateLimit throttles downloads to roughly bytesPerSec across both
// files of the pair. Zero or negative disables throttling.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		if bytesPerSec > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fsys:   fs.Default,
		logger: voxdata.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// suffix order tried per object: uncompressed first, then compressed
// variants, decoded by extension.
var encodings = []struct {
	ext    string
	decode func(io.Reader) (io.Reader, error)
}{
	{"", func(r io.Reader) (io.Reader, error) { return r, nil }},
	{".gz", func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }},
	{".lz4", func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil }},
}

// Download fetches <name>.idx and <name>.bin from src into
// <destPrefix>.idx and <destPrefix>.bin. The two objects are fetched
// concurrently; each is written to a temporary file and renamed into place
// on success, so destination prefixes never hold partially downloaded
// stores. Objects published with a .gz or .lz4 suffix are found and
// decompressed transparently.
func Download(ctx context.Context, src Source, name, destPrefix string, opts ...Option) error {
	o := applyOptions(opts)

	if err := o.fsys.MkdirAll(filepath.Dir(destPrefix), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	o.logger.Debug("downloading store", "source", src, "name", name, "dest", destPrefix)

	g, ctx := errgroup.WithContext(ctx)
	for _, ext := range []string{".idx", ".bin"} {
		ext := ext
		g.Go(func() error {
			return fetchObject(ctx, o, src, name+ext, destPrefix+ext)
		})
	}
	return g.Wait()
}

// fetchObject tries each encoding suffix in order until one exists.
func fetchObject(ctx context.Context, o options, src Source, name, dest string) error {
	for _, enc := range encodings {
		err := fetchOne(ctx, o, src, name+enc.ext, dest, enc.decode)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("fetch %s: %w", name+enc.ext, err)
		}
		return nil
	}
	return fmt.Errorf("fetch %s: %w", name, ErrNotFound)
}

func fetchOne(ctx context.Context, o options, src Source, remote, dest string, decode func(io.Reader) (io.Reader, error)) error {
	rc, err := src.Fetch(ctx, remote)
	if err != nil {
		return err
	}
	defer rc.Close()

	var body io.Reader = rc
	if o.limiter != nil {
		body = &throttledReader{r: body, limiter: o.limiter, ctx: ctx}
	}
	body, err = decode(body)
	if err != nil {
		return err
	}

	tmp := dest + ".partial"
	f, err := o.fsys.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, body)
	if err != nil {
		_ = f.Close()
		_ = o.fsys.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = o.fsys.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = o.fsys.Remove(tmp)
		return err
	}
	if err := o.fsys.Rename(tmp, dest); err != nil {
		_ = o.fsys.Remove(tmp)
		return err
	}

	o.logger.Debug("object downloaded", "object", remote, "dest", dest, "bytes", n)
	return nil
}

// throttledReader paces reads through a shared byte-rate limiter.
type throttledReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if burst := t.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
