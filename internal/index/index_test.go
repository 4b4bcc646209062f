package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIndex encodes a header followed by the given frame spans.
func buildIndex(h Header, spans ...uint32) []byte {
	data := EncodeHeader(h)
	for _, s := range spans {
		data = AppendFrame(data, s)
	}
	return data
}

func TestEncodeHeader(t *testing.T) {
	t.Parallel()

	got := EncodeHeader(Header{PerFrame: 1024, TotalLines: 5000, Separator: '\n'})
	want := []byte{
		'B', 'i', 'g', 'L', 'i', 's', 't', 0x01,
		0x00, 0x04,
		0x88, 0x13, 0, 0, 0, 0, 0, 0,
		'\n', 0x00,
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, HeaderSize)
}

func TestDecodeHeader(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		h := Header{PerFrame: 7, TotalLines: 1 << 40, Separator: ','}
		got, err := DecodeHeader(EncodeHeader(h))
		require.NoError(t, err)
		assert.Equal(t, h, got)
	})

	t.Run("short", func(t *testing.T) {
		t.Parallel()
		data := EncodeHeader(Header{PerFrame: 1, Separator: '\n'})
		_, err := DecodeHeader(data[:HeaderSize-1])
		assert.ErrorIs(t, err, ErrStale)
	})

	t.Run("bad magic", func(t *testing.T) {
		t.Parallel()
		data := EncodeHeader(Header{PerFrame: 1, Separator: '\n'})
		data[7] = 0x02
		_, err := DecodeHeader(data)
		assert.ErrorIs(t, err, ErrStale)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeHeader(nil)
		assert.ErrorIs(t, err, ErrStale)
	})
}

func TestFrameCodec(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, EncodeFrame(0x01020304))

	n, err := DecodeFrame([]byte{0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffffff), n)

	_, err = DecodeFrame([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrStale)
}

func TestFrameCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lines    uint64
		perFrame uint16
		want     uint64
	}{
		{0, 1024, 0},
		{1, 1024, 1},
		{1024, 1024, 1},
		{1025, 1024, 2},
		{5000, 1024, 5},
		{3, 2, 2},
		{10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FrameCount(tt.lines, tt.perFrame), "lines=%d perFrame=%d", tt.lines, tt.perFrame)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("offsets are prefix sums", func(t *testing.T) {
		t.Parallel()
		data := buildIndex(Header{PerFrame: 2, TotalLines: 5, Separator: '\n'}, 4, 6, 2)
		idx, err := Load(data)
		require.NoError(t, err)

		require.Equal(t, 3, idx.Len())
		assert.Equal(t, Frame{Offset: 0, NumBytes: 4}, idx.Frame(0))
		assert.Equal(t, Frame{Offset: 4, NumBytes: 6}, idx.Frame(1))
		assert.Equal(t, Frame{Offset: 10, NumBytes: 2}, idx.Frame(2))
		assert.Equal(t, uint64(12), idx.Size())
		assert.Equal(t, uint64(12), idx.Frame(2).End())

		assert.Equal(t, 2, idx.LinesInFrame(0))
		assert.Equal(t, 1, idx.LinesInFrame(2))
	})

	t.Run("empty source", func(t *testing.T) {
		t.Parallel()
		idx, err := Load(buildIndex(Header{PerFrame: 1024, Separator: '\n'}))
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
		assert.Equal(t, uint64(0), idx.Size())
	})

	t.Run("truncated frame table", func(t *testing.T) {
		t.Parallel()
		data := buildIndex(Header{PerFrame: 2, TotalLines: 5, Separator: '\n'}, 4, 6, 2)
		_, err := Load(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrStale)
	})

	t.Run("trailing bytes ignored", func(t *testing.T) {
		t.Parallel()
		data := buildIndex(Header{PerFrame: 2, TotalLines: 2, Separator: '\n'}, 4)
		data = append(data, 0xde, 0xad)
		idx, err := Load(data)
		require.NoError(t, err)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("zero per frame", func(t *testing.T) {
		t.Parallel()
		_, err := Load(buildIndex(Header{PerFrame: 0, TotalLines: 2, Separator: '\n'}))
		assert.ErrorIs(t, err, ErrStale)
	})

	t.Run("max span", func(t *testing.T) {
		t.Parallel()
		idx, err := Load(buildIndex(Header{PerFrame: 1, TotalLines: 1, Separator: '\n'}, 0xffffffff))
		require.NoError(t, err)
		assert.Equal(t, uint64(0xffffffff), idx.Size())
	})
}

func TestFramesIterator(t *testing.T) {
	t.Parallel()

	idx, err := Load(buildIndex(Header{PerFrame: 1, TotalLines: 3, Separator: '\n'}, 2, 3, 4))
	require.NoError(t, err)

	var got []Frame
	for i, f := range idx.Frames() {
		assert.Equal(t, len(got), i)
		got = append(got, f)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []Frame{{0, 2}, {2, 3}}, got)
}
