package write

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/biglist/internal/index"
	"github.com/meigma/biglist/internal/sizing"
)

// scanBufferSize is the read size used while scanning a source.
const scanBufferSize = 64 << 10

// ErrFrameTooLarge is returned when a frame spans more bytes than a frame
// record can hold.
var ErrFrameTooLarge = fmt.Errorf("frame exceeds 4GiB: %w", sizing.ErrOverflow)

// Result holds the frame table produced by Build.
type Result struct {
	Header     index.Header
	Spans      []uint32
	SourceSize int64
}

// Bytes returns the encoded index file contents.
func (r *Result) Bytes() []byte {
	data := make([]byte, 0, index.HeaderSize+len(r.Spans)*index.FrameSize)
	data = index.AppendHeader(data, r.Header)
	for _, span := range r.Spans {
		data = index.AppendFrame(data, span)
	}
	return data
}

// Build scans src from start to end and returns its frame table.
//
// A frame is cut immediately after every perFrame-th separator. Whatever
// remains at EOF becomes a final, shorter frame; if the source ends exactly on
// a frame boundary no empty frame is recorded. A trailing record without a
// separator counts as one line.
//
// The context is checked between reads.
func Build(ctx context.Context, src io.Reader, perFrame uint16, sep byte) (*Result, error) {
	if perFrame == 0 {
		return nil, errors.New("lines per frame must be > 0")
	}

	s := &scanner{perFrame: int(perFrame), sep: sep}
	buf := make([]byte, scanBufferSize)
	if _, err := copyWithContext(ctx, s, src, buf); err != nil {
		return nil, err
	}
	if err := s.finish(); err != nil {
		return nil, err
	}

	return &Result{
		Header: index.Header{
			PerFrame:   perFrame,
			TotalLines: s.totalLines,
			Separator:  sep,
		},
		Spans:      s.spans,
		SourceSize: s.pos,
	}, nil
}

// scanner consumes source bytes as an io.Writer and records frame spans.
type scanner struct {
	perFrame    int
	sep         byte
	pos         int64 // bytes consumed so far
	frameOffset int64 // source offset of the current frame
	frameLines  int   // separators seen in the current frame
	totalLines  uint64
	lastByte    byte
	spans       []uint32
}

func (s *scanner) Write(p []byte) (int, error) {
	rest := p
	for {
		i := bytes.IndexByte(rest, s.sep)
		if i < 0 {
			break
		}
		rest = rest[i+1:]
		s.frameLines++
		if s.frameLines == s.perFrame {
			end := s.pos + int64(len(p)-len(rest))
			added, err := s.cut(end)
			if err != nil {
				return len(p) - len(rest), err
			}
			if added {
				s.totalLines += uint64(s.perFrame)
			}
			s.frameLines = 0
		}
	}
	if len(p) > 0 {
		s.lastByte = p[len(p)-1]
	}
	s.pos += int64(len(p))
	return len(p), nil
}

// cut closes the current frame at end. It reports whether a non-empty frame
// was recorded.
func (s *scanner) cut(end int64) (bool, error) {
	span := end - s.frameOffset
	s.frameOffset = end
	if span <= 0 {
		return false, nil
	}
	n, err := sizing.ToUint32(span)
	if err != nil {
		return false, ErrFrameTooLarge
	}
	s.spans = append(s.spans, n)
	return true, nil
}

// finish records the final partial frame, if any.
func (s *scanner) finish() error {
	lines := s.frameLines
	added, err := s.cut(s.pos)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	s.totalLines += uint64(lines)
	if s.lastByte != s.sep {
		s.totalLines++
	}
	return nil
}

// copyWithContext copies from src to dst until EOF or error, checking for
// context cancellation between reads.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			written += int64(nw)
			if ew != nil {
				return written, ew
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return written, nil
			}
			return written, er
		}
	}
}
