package biglist

import (
	"errors"

	"github.com/meigma/biglist/internal/sizing"
)

// Sentinel errors. Returned errors wrap these with context; test with errors.Is.
var (
	// ErrInvalidArgument is returned by Open for malformed configuration:
	// an empty filename, a separator that is not a single byte, lines per
	// frame outside (0, 65536), or an unknown encoding.
	ErrInvalidArgument = errors.New("biglist: invalid argument")

	// ErrSourceNotFound is returned by Open when the source file does not
	// exist or is not a regular file.
	ErrSourceNotFound = errors.New("biglist: source not found")

	// ErrIndexRange is returned for out-of-range record indices and for
	// invalid ranges passed to RandomIndex and Choice.
	ErrIndexRange = errors.New("biglist: index out of range")

	// ErrEmpty is returned by RandomIndex and Choice on a list with no
	// records. Errors wrapping ErrEmpty also match ErrIndexRange.
	ErrEmpty = errors.New("biglist: no records to choose from")

	// ErrIntegrity is returned when the source file and its index disagree in
	// a way a rebuild cannot explain: a frame read comes up short, or a
	// freshly written index fails to decode. It is never retried.
	ErrIntegrity = errors.New("biglist: integrity error")

	// ErrClosed is returned when reading from a closed List.
	ErrClosed = errors.New("biglist: list is closed")

	// ErrSizeOverflow is returned when a single frame spans more bytes than
	// the index format can record (4GiB).
	ErrSizeOverflow = sizing.ErrOverflow
)
