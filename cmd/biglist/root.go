package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/meigma/biglist"
)

const encodingNone = "none"

// globalFlags holds options shared by every subcommand.
type globalFlags struct {
	perFrame  int
	separator string
	encoding  string
	trimCR    bool
	verbose   bool
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&g.perFrame, "per-frame", biglist.DefaultPerFrame, "records per index frame (1-65535)")
	fs.StringVar(&g.separator, "separator", `\n`, "single-byte record separator; Go escapes such as \\n, \\t, \\x00 are accepted")
	fs.StringVar(&g.encoding, "encoding", biglist.DefaultEncoding, `text encoding of records, or "none" for raw bytes`)
	fs.BoolVar(&g.trimCR, "trim-cr", false, "strip a trailing carriage return from each record")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "log index activity to stderr")
}

// logger returns a debug logger on w when verbose output is enabled.
func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	if !g.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// options converts the flags to biglist options.
func (g *globalFlags) options(logw io.Writer) ([]biglist.Option, error) {
	sep, err := parseSeparator(g.separator)
	if err != nil {
		return nil, err
	}
	opts := []biglist.Option{
		biglist.WithPerFrame(g.perFrame),
		biglist.WithSeparatorString(sep),
		biglist.WithTrimCR(g.trimCR),
		biglist.WithLogger(g.logger(logw)),
	}
	if strings.EqualFold(g.encoding, encodingNone) {
		opts = append(opts, biglist.WithRawBytes())
	} else {
		opts = append(opts, biglist.WithEncoding(g.encoding))
	}
	return opts, nil
}

// open opens filename with the configured options.
func (g *globalFlags) open(cmd *cobra.Command, filename string) (*biglist.List, error) {
	opts, err := g.options(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return biglist.Open(cmd.Context(), filename, opts...)
}

// parseSeparator interprets Go escape sequences in s.
func parseSeparator(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	out, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return "", fmt.Errorf("%w: bad separator %q: %w", biglist.ErrInvalidArgument, s, err)
	}
	return out, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "biglist",
		Short: "Random access to records of large text files",
		Long: `biglist reads individual records of large delimiter-separated files
without loading them into memory.

The first access to a file writes FILE.index alongside it. The index is
rebuilt automatically when the file changes or when --per-frame or
--separator differ from the values it was built with.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(root.PersistentFlags())

	root.AddCommand(
		newIndexCmd(g),
		newLenCmd(g),
		newGetCmd(g),
		newChoiceCmd(g),
		newCatCmd(g),
		newInspectCmd(),
	)
	return root
}
