package index

import (
	"fmt"
	"iter"

	"github.com/meigma/biglist/internal/sizing"
)

// Frame locates a run of up to PerFrame records in the source file.
type Frame struct {
	Offset   uint64
	NumBytes uint32
}

// End returns the offset one past the last byte of the frame.
func (f Frame) End() uint64 {
	return f.Offset + uint64(f.NumBytes)
}

// Index is a decoded index file.
//
// Frames are held in memory; an index with n frames costs roughly 12n bytes.
type Index struct {
	header Header
	frames []Frame
	size   uint64
}

// Load decodes a complete index file.
//
// Load returns ErrStale if the header is malformed or the frame table is
// shorter than the header's line count requires. Bytes after the frame table
// are ignored. Load does not check the header against any caller
// configuration; use Header for that.
func Load(data []byte) (*Index, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.PerFrame == 0 {
		return nil, fmt.Errorf("%w: zero lines per frame", ErrStale)
	}

	n := h.Frames()
	table := data[HeaderSize:]
	if uint64(len(table))/FrameSize < n {
		return nil, fmt.Errorf("%w: frame table truncated: want %d frames, have %d", ErrStale, n, len(table)/FrameSize)
	}
	count, err := sizing.ToInt(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStale, err)
	}

	frames := make([]Frame, count)
	var offset uint64
	for i := range frames {
		numBytes, err := DecodeFrame(table[i*FrameSize:])
		if err != nil {
			return nil, err
		}
		frames[i] = Frame{Offset: offset, NumBytes: numBytes}
		next, ok := sizing.AddUint64(offset, uint64(numBytes))
		if !ok {
			return nil, fmt.Errorf("%w: frame offsets overflow", ErrStale)
		}
		offset = next
	}

	return &Index{header: h, frames: frames, size: offset}, nil
}

// Header returns the decoded header.
func (idx *Index) Header() Header {
	return idx.header
}

// Len returns the number of frames.
func (idx *Index) Len() int {
	return len(idx.frames)
}

// Frame returns the i-th frame. It panics if i is out of range.
func (idx *Index) Frame(i int) Frame {
	return idx.frames[i]
}

// Frames returns an iterator over all frames in source order.
func (idx *Index) Frames() iter.Seq2[int, Frame] {
	return func(yield func(int, Frame) bool) {
		for i, f := range idx.frames {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Size returns the number of source bytes covered by all frames.
func (idx *Index) Size() uint64 {
	return idx.size
}

// LinesInFrame returns the number of records held by frame i.
func (idx *Index) LinesInFrame(i int) int {
	per := uint64(idx.header.PerFrame)
	if i < len(idx.frames)-1 {
		return int(per)
	}
	rem := idx.header.TotalLines % per
	if rem == 0 {
		return int(per)
	}
	return int(rem)
}
