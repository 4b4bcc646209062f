package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/meigma/biglist"
	"github.com/meigma/biglist/internal/index"
)

func newInspectCmd() *cobra.Command {
	var listFrames bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe the index of FILE without reading or rebuilding it",
		Long: `Describe the index of FILE without reading or rebuilding it.

FILE may name either the source file or its .index file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcPath, indexPath := args[0], args[0]+biglist.IndexSuffix
			if strings.HasSuffix(args[0], biglist.IndexSuffix) {
				srcPath, indexPath = strings.TrimSuffix(args[0], biglist.IndexSuffix), args[0]
			}

			data, err := os.ReadFile(indexPath)
			if err != nil {
				return err
			}
			idx, err := index.Load(data)
			if err != nil {
				return fmt.Errorf("%s: %w", indexPath, err)
			}
			return printIndex(cmd.OutOrStdout(), srcPath, indexPath, data, idx, listFrames)
		},
	}
	cmd.Flags().BoolVar(&listFrames, "frames", false, "list every frame")
	return cmd
}

func printIndex(w io.Writer, srcPath, indexPath string, data []byte, idx *index.Index, listFrames bool) error {
	h := idx.Header()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "index:\t%s\n", indexPath)
	fmt.Fprintf(tw, "per frame:\t%d\n", h.PerFrame)
	fmt.Fprintf(tw, "records:\t%s\n", humanize.Comma(int64(h.TotalLines))) //nolint:gosec // display only
	fmt.Fprintf(tw, "separator:\t%q\n", string(h.Separator))
	fmt.Fprintf(tw, "frames:\t%d\n", idx.Len())
	fmt.Fprintf(tw, "covers:\t%s (%d bytes)\n", humanize.IBytes(idx.Size()), idx.Size())
	fmt.Fprintf(tw, "size:\t%s\n", humanize.IBytes(uint64(len(data))))
	fmt.Fprintf(tw, "digest:\t%s\n", digest.FromBytes(data))
	fmt.Fprintf(tw, "source:\t%s\n", sourceState(srcPath, indexPath, idx))
	if err := tw.Flush(); err != nil {
		return err
	}

	if !listFrames {
		return nil
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "frame\toffset\tbytes\trecords\t")
	for i, f := range idx.Frames() {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n", i, f.Offset, f.NumBytes, idx.LinesInFrame(i))
	}
	return tw.Flush()
}

// sourceState summarizes whether the index would be reused for srcPath.
func sourceState(srcPath, indexPath string, idx *index.Index) string {
	src, err := os.Stat(srcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "missing"
	}
	if err != nil {
		return err.Error()
	}
	ix, err := os.Stat(indexPath)
	if err != nil {
		return err.Error()
	}
	switch {
	case !src.ModTime().Before(ix.ModTime()):
		return "modified since indexed"
	case uint64(src.Size()) != idx.Size(): //nolint:gosec // file sizes are non-negative
		return fmt.Sprintf("size mismatch (%d bytes on disk)", src.Size())
	default:
		return "up to date"
	}
}
