package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a remote object does not exist.
//
// Implementations should return an error satisfying
// errors.Is(err, ErrNotFound). The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Source is a read-only origin of dataset objects. The Stringer form
// identifies the origin in logs.
type Source interface {
	fmt.Stringer

	// Fetch opens the named object for reading. The caller closes the
	// returned reader.
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}
