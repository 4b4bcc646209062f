package biglist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/meigma/biglist/internal/index"
	"github.com/meigma/biglist/internal/sizing"
	"github.com/meigma/biglist/internal/textenc"
	"github.com/meigma/biglist/internal/write"
)

// buildGroup collapses concurrent rebuilds of the same index within a process.
var buildGroup singleflight.Group

// Open opens filename for random access, generating or refreshing its index
// at filename + IndexSuffix as needed.
//
// The existing index is reused when the source was last modified strictly
// before the index and the index header matches the requested lines per frame
// and separator; otherwise the index is rebuilt with a full scan of the
// source. The context bounds the scan only.
//
// Open returns ErrInvalidArgument for bad configuration, ErrSourceNotFound
// when filename is missing, and ErrIntegrity if a freshly written index
// cannot be read back.
func Open(ctx context.Context, filename string, opts ...Option) (*List, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidArgument)
	}
	srcInfo, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
		}
		return nil, err
	}
	if !srcInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrSourceNotFound, filename)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var dec *textenc.Decoder
	if cfg.encoding != "" {
		dec, err = textenc.Lookup(cfg.encoding)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	l := &List{
		filename:      filename,
		indexFilename: filename + IndexSuffix,
		cfg:           cfg,
		decoder:       dec,
		activeFrame:   -1,
	}
	if err := l.loadIndex(ctx, srcInfo); err != nil {
		return nil, err
	}

	src, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	l.src = src
	return l, nil
}

// loadIndex runs the open protocol: reuse a fresh, matching index or rebuild.
func (l *List) loadIndex(ctx context.Context, srcInfo fs.FileInfo) error {
	if l.indexFresh(srcInfo) {
		l.log().Debug("reading existing index", "path", l.indexFilename)
		err := l.readIndex()
		if err == nil {
			return nil
		}
		if !errors.Is(err, index.ErrStale) {
			return err
		}
		l.log().Debug("index out of date", "path", l.indexFilename, "reason", err)
	}

	l.log().Debug("generating index", "path", l.indexFilename)
	if err := l.generateIndex(ctx); err != nil {
		return err
	}
	l.rebuilt = true

	l.log().Debug("reading new index", "path", l.indexFilename)
	if err := l.readIndex(); err != nil {
		if errors.Is(err, index.ErrStale) {
			return fmt.Errorf("%w: index unreadable after rebuild: %w", ErrIntegrity, err)
		}
		return err
	}
	return nil
}

// indexFresh reports whether the index exists and is newer than the source.
// It does not read the index.
func (l *List) indexFresh(srcInfo fs.FileInfo) bool {
	idxInfo, err := os.Stat(l.indexFilename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.log().Debug("stat index", "path", l.indexFilename, "error", err)
		}
		return false
	}
	if !idxInfo.Mode().IsRegular() {
		return false
	}
	return srcInfo.ModTime().Before(idxInfo.ModTime())
}

// readIndex loads the index file, returning an error wrapping index.ErrStale
// if it cannot be trusted for the current configuration.
func (l *List) readIndex() error {
	data, err := os.ReadFile(l.indexFilename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", index.ErrStale, err)
		}
		return err
	}

	h, err := index.DecodeHeader(data)
	if err != nil {
		return err
	}
	l.log().Debug("index header",
		"per_frame", h.PerFrame,
		"total_lines", h.TotalLines,
		"separator", string(h.Separator),
	)
	if int(h.PerFrame) != l.cfg.perFrame || h.Separator != l.cfg.separator {
		return fmt.Errorf("%w: built with per frame %d and separator %q", index.ErrStale, h.PerFrame, h.Separator)
	}

	idx, err := index.Load(data)
	if err != nil {
		return err
	}
	lines, err := sizing.ToInt(h.TotalLines)
	if err != nil {
		return fmt.Errorf("%w: %w", index.ErrStale, err)
	}
	tableEnd := index.HeaderSize + idx.Len()*index.FrameSize
	l.log().Debug("index loaded", "frames", idx.Len(), "trailing_bytes", len(data)-tableEnd)

	l.idx = idx
	l.indexData = data
	l.lines = lines
	l.activeFrame = -1
	l.activeRecords = nil
	return nil
}

// generateIndex scans the source and atomically replaces the index file.
func (l *List) generateIndex(ctx context.Context) error {
	perFrame := uint16(l.cfg.perFrame) //nolint:gosec // bounded by validate
	sep := l.cfg.separator
	key := fmt.Sprintf("%s\x00%d\x00%d", l.indexFilename, perFrame, sep)

	_, err, shared := buildGroup.Do(key, func() (any, error) {
		return nil, buildIndexFile(ctx, l.filename, l.indexFilename, perFrame, sep)
	})
	if shared {
		l.log().Debug("index build shared", "path", l.indexFilename)
	}
	return err
}

func buildIndexFile(ctx context.Context, srcPath, indexPath string, perFrame uint16, sep byte) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := write.Build(ctx, f, perFrame, sep)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := write.WriteFileAtomic(indexPath, res.Bytes()); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
