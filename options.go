package biglist

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
)

const (
	// DefaultPerFrame is the default number of records per frame.
	DefaultPerFrame = 1024

	// DefaultSeparator is the default record separator.
	DefaultSeparator = '\n'

	// DefaultEncoding is the default text encoding for Get.
	DefaultEncoding = "utf-8"

	// maxPerFrame bounds PerFrame to what the index header can store.
	maxPerFrame = 1<<16 - 1
)

// config holds Open settings.
type config struct {
	encoding  string // "" selects raw mode
	perFrame  int
	separator byte
	trimCR    bool
	logger    *slog.Logger
	rand      *rand.Rand
	err       error // first option error, reported by Open
}

func defaultConfig() config {
	return config{
		encoding:  DefaultEncoding,
		perFrame:  DefaultPerFrame,
		separator: DefaultSeparator,
	}
}

// Option configures Open.
type Option func(*config)

// WithEncoding sets the text encoding used by Get, Choice, and All.
// Names are WHATWG labels such as "utf-8", "latin1", or "utf-16le".
// An empty name selects raw mode, as WithRawBytes does.
func WithEncoding(name string) Option {
	return func(c *config) {
		c.encoding = name
	}
}

// WithRawBytes disables decoding: Get returns the record bytes unchanged.
func WithRawBytes() Option {
	return func(c *config) {
		c.encoding = ""
	}
}

// WithPerFrame sets the number of records per frame (default 1024).
//
// Larger frames make the index smaller but every cache miss reads and splits
// more of the source. n must satisfy 0 < n < 65536.
func WithPerFrame(n int) Option {
	return func(c *config) {
		c.perFrame = n
	}
}

// WithSeparator sets the record separator byte (default '\n').
func WithSeparator(sep byte) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// WithSeparatorString sets the record separator from a string, which must be
// exactly one byte long.
func WithSeparatorString(sep string) Option {
	return func(c *config) {
		if len(sep) != 1 {
			c.setErr(fmt.Errorf("%w: separator must be a single byte, got %q", ErrInvalidArgument, sep))
			return
		}
		c.separator = sep[0]
	}
}

// WithTrimCR strips one trailing '\r' from every record, for sources with
// CRLF line endings. The index is unaffected.
func WithTrimCR(enabled bool) Option {
	return func(c *config) {
		c.trimCR = enabled
	}
}

// WithLogger sets the logger used for debug output.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRand sets the random source used by RandomIndex and Choice.
// If not set, the math/rand/v2 global source is used.
func WithRand(r *rand.Rand) Option {
	return func(c *config) {
		c.rand = r
	}
}

func (c *config) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *config) validate() error {
	if c.err != nil {
		return c.err
	}
	if c.perFrame <= 0 || c.perFrame > maxPerFrame {
		return fmt.Errorf("%w: per frame must be in (0, 65536), got %d", ErrInvalidArgument, c.perFrame)
	}
	return nil
}
