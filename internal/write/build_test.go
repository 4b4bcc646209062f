package write

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/biglist/internal/index"
)

func mustBuild(tb testing.TB, src string, perFrame uint16, sep byte) *Result {
	tb.Helper()
	res, err := Build(context.Background(), strings.NewReader(src), perFrame, sep)
	require.NoError(tb, err, "Build failed")
	return res
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		perFrame  uint16
		sep       byte
		wantLines uint64
		wantSpans []uint32
	}{
		{"terminated", "a\nb\nc\n", 2, '\n', 3, []uint32{4, 2}},
		{"unterminated", "a\nb", 10, '\n', 2, []uint32{3}},
		{"exact multiple", "a\nb\n", 2, '\n', 2, []uint32{4}},
		{"exact multiple unterminated tail", "a\nb\nc", 2, '\n', 3, []uint32{4, 1}},
		{"empty", "", 1024, '\n', 0, nil},
		{"single separator", "\n", 1024, '\n', 1, []uint32{1}},
		{"empty records", "\n\n\n", 2, '\n', 3, []uint32{2, 1}},
		{"no separator", "abc", 4, '\n', 1, []uint32{3}},
		{"comma", "a,b,c,d", 1024, ',', 4, []uint32{7}},
		{"one per frame", "aa\nb\nccc\n", 1, '\n', 3, []uint32{3, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := mustBuild(t, tt.src, tt.perFrame, tt.sep)
			assert.Equal(t, tt.wantLines, res.Header.TotalLines)
			assert.Equal(t, tt.wantSpans, res.Spans)
			assert.Equal(t, tt.perFrame, res.Header.PerFrame)
			assert.Equal(t, tt.sep, res.Header.Separator)
			assert.Equal(t, int64(len(tt.src)), res.SourceSize)
			assert.Equal(t, index.FrameCount(res.Header.TotalLines, tt.perFrame), uint64(len(res.Spans)))
		})
	}
}

func TestBuildLargeSource(t *testing.T) {
	t.Parallel()

	var src strings.Builder
	for i := range 5000 {
		src.WriteString(strings.Repeat("x", i%37))
		src.WriteByte('\n')
	}
	res := mustBuild(t, src.String(), 1024, '\n')

	assert.Equal(t, uint64(5000), res.Header.TotalLines)
	assert.Len(t, res.Spans, 5)

	var total int64
	for _, s := range res.Spans {
		total += int64(s)
	}
	assert.Equal(t, int64(src.Len()), total, "frames must cover the whole source")
}

func TestBuildReadSizeIndependent(t *testing.T) {
	t.Parallel()

	src := "alpha\nbeta\ngamma\ndelta\nepsilon\nzeta\neta"
	want := mustBuild(t, src, 3, '\n')

	got, err := Build(context.Background(), iotest.OneByteReader(strings.NewReader(src)), 3, '\n')
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	src := "one\ntwo\nthree\nfour\nfive\n"
	a := mustBuild(t, src, 2, '\n').Bytes()
	b := mustBuild(t, src, 2, '\n').Bytes()
	assert.True(t, bytes.Equal(a, b))

	idx, err := index.Load(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), idx.Header().TotalLines)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, uint64(len(src)), idx.Size())
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("zero per frame", func(t *testing.T) {
		t.Parallel()
		_, err := Build(context.Background(), strings.NewReader("a"), 0, '\n')
		assert.Error(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Build(ctx, strings.NewReader("a\nb\n"), 1, '\n')
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("read error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := Build(context.Background(), iotest.ErrReader(boom), 1, '\n')
		assert.ErrorIs(t, err, boom)
	})
}

func TestScannerFrameTooLarge(t *testing.T) {
	t.Parallel()

	s := &scanner{perFrame: 1, sep: '\n'}
	_, err := s.cut(1 << 32)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}
