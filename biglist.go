package biglist

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/biglist/internal/index"
	"github.com/meigma/biglist/internal/sizing"
	"github.com/meigma/biglist/internal/textenc"
)

// IndexSuffix is appended to the source path to form the index path.
const IndexSuffix = ".index"

// List provides random access to the records of a source file.
type List struct {
	filename      string
	indexFilename string
	cfg           config
	decoder       *textenc.Decoder // nil in raw mode
	src           *os.File
	idx           *index.Index
	indexData     []byte
	lines         int
	rebuilt       bool

	// Single-frame decode cache, replaced wholesale on frame change.
	activeFrame   int
	activeRecords [][]byte
}

// Info describes an open List and its index.
type Info struct {
	Filename      string
	IndexFilename string
	Lines         int
	Frames        int
	PerFrame      int
	Separator     byte
	Encoding      string // "" in raw mode
	SourceSize    uint64
	IndexSize     int
	Digest        digest.Digest // of the index file contents
	Rebuilt       bool          // whether Open generated the index
}

// log returns the logger, falling back to a discard logger if nil.
func (l *List) log() *slog.Logger {
	if l.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.cfg.logger
}

// Len returns the number of records.
func (l *List) Len() int {
	return l.lines
}

// Filename returns the source file path.
func (l *List) Filename() string {
	return l.filename
}

// IndexFilename returns the index file path.
func (l *List) IndexFilename() string {
	return l.indexFilename
}

// PerFrame returns the number of records per frame.
func (l *List) PerFrame() int {
	return l.cfg.perFrame
}

// Separator returns the record separator.
func (l *List) Separator() byte {
	return l.cfg.separator
}

// IndexData returns the raw index file contents loaded by Open.
// The returned slice must not be modified.
func (l *List) IndexData() []byte {
	return l.indexData
}

// Info returns metadata about the list and its index.
func (l *List) Info() Info {
	info := Info{
		Filename:      l.filename,
		IndexFilename: l.indexFilename,
		Lines:         l.lines,
		Frames:        l.idx.Len(),
		PerFrame:      l.cfg.perFrame,
		Separator:     l.cfg.separator,
		SourceSize:    l.idx.Size(),
		IndexSize:     len(l.indexData),
		Digest:        digest.FromBytes(l.indexData),
		Rebuilt:       l.rebuilt,
	}
	if l.decoder != nil {
		info.Encoding = l.decoder.Name()
	}
	return info
}

// String returns a short description of the list.
func (l *List) String() string {
	return fmt.Sprintf("<List filename=%q lines=%d>", l.filename, l.lines)
}

// Close releases the source file handle. Later reads return ErrClosed.
// Closing a closed List is a no-op.
func (l *List) Close() error {
	l.activeFrame = -1
	l.activeRecords = nil
	if l.src == nil {
		return nil
	}
	err := l.src.Close()
	l.src = nil
	return err
}

// Get returns record i decoded with the configured encoding. In raw mode the
// bytes are returned unchanged as a string.
//
// Negative i counts from the end: Get(-1) is the last record.
func (l *List) Get(i int) (string, error) {
	rec, err := l.record(i)
	if err != nil {
		return "", err
	}
	if l.decoder == nil {
		return string(rec), nil
	}
	s, err := l.decoder.Decode(rec)
	if err != nil {
		return "", fmt.Errorf("record %d: %w", i, err)
	}
	return s, nil
}

// Bytes returns a copy of the raw bytes of record i, separator excluded.
//
// Negative i counts from the end.
func (l *List) Bytes(i int) ([]byte, error) {
	rec, err := l.record(i)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(rec), nil
}

// All returns an iterator over every record in order. Iteration stops after
// the first error, which is yielded with an empty record.
func (l *List) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i := range l.lines {
			s, err := l.Get(i)
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

// AllBytes is like All but yields raw record bytes.
func (l *List) AllBytes() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for i := range l.lines {
			b, err := l.Bytes(i)
			if !yield(b, err) || err != nil {
				return
			}
		}
	}
}

// RandomIndex returns a uniformly distributed index in [start, end].
//
// Negative start and end count from the end, so RandomIndex(0, -1) covers the
// whole list. It returns ErrEmpty for an empty list and ErrIndexRange if
// start > end or either bound falls outside the list after normalization.
func (l *List) RandomIndex(start, end int) (int, error) {
	n := l.lines
	if n == 0 {
		return 0, fmt.Errorf("%w: %w", ErrIndexRange, ErrEmpty)
	}
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start > end {
		return 0, fmt.Errorf("%w: start %d is greater than end %d", ErrIndexRange, start, end)
	}
	if start < 0 || end >= n {
		return 0, fmt.Errorf("%w: range [%d, %d] outside [0, %d)", ErrIndexRange, start, end, n)
	}
	span := end - start + 1
	if l.cfg.rand != nil {
		return start + l.cfg.rand.IntN(span), nil
	}
	return start + rand.IntN(span), nil
}

// Choice returns a random record from [start, end]. See RandomIndex.
func (l *List) Choice(start, end int) (string, error) {
	i, err := l.RandomIndex(start, end)
	if err != nil {
		return "", err
	}
	return l.Get(i)
}

// Random returns a random record from the whole list.
func (l *List) Random() (string, error) {
	return l.Choice(0, -1)
}

// record returns the raw bytes of record i, aliasing the frame cache.
func (l *List) record(i int) ([]byte, error) {
	if i < 0 {
		i += l.lines
	}
	if i < 0 || i >= l.lines {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexRange, i, l.lines)
	}
	if l.src == nil {
		return nil, ErrClosed
	}

	frame, offset := i/l.cfg.perFrame, i%l.cfg.perFrame
	records, err := l.frameRecords(frame)
	if err != nil {
		return nil, err
	}
	if offset >= len(records) {
		return nil, fmt.Errorf("%w: frame %d holds %d records, want record %d", ErrIntegrity, frame, len(records), offset)
	}
	return records[offset], nil
}

// frameRecords returns the records of frame i, reading the source on a
// cache miss.
func (l *List) frameRecords(i int) ([][]byte, error) {
	if l.activeRecords != nil && l.activeFrame == i {
		return l.activeRecords, nil
	}

	f := l.idx.Frame(i)
	buf := make([]byte, f.NumBytes)
	off, err := sizing.ToInt64(f.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d offset: %w", ErrIntegrity, i, err)
	}
	n, err := l.src.ReadAt(buf, off)
	if n < len(buf) {
		if err == nil {
			err = errors.New("short read")
		}
		return nil, fmt.Errorf("%w: frame %d: read %d of %d bytes at offset %d: %w", ErrIntegrity, i, n, len(buf), off, err)
	}

	sep := l.cfg.separator
	buf = bytes.TrimSuffix(buf, []byte{sep})
	records := bytes.Split(buf, []byte{sep})
	if l.cfg.trimCR {
		for j, r := range records {
			records[j] = bytes.TrimSuffix(r, []byte{'\r'})
		}
	}
	l.log().Debug("read frame", "frame", i, "records", len(records))

	l.activeFrame = i
	l.activeRecords = records
	return records, nil
}
