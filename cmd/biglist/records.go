package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/biglist"
)

func newIndexCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "index FILE",
		Short: "Build or refresh the index of FILE and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Close()

			info := l.Info()
			state := "reused"
			if info.Rebuilt {
				state = "rebuilt"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "index:   %s (%s)\n", info.IndexFilename, state)
			fmt.Fprintf(out, "records: %s\n", humanize.Comma(int64(info.Lines)))
			fmt.Fprintf(out, "frames:  %s x %d records\n", humanize.Comma(int64(info.Frames)), info.PerFrame)
			fmt.Fprintf(out, "source:  %s\n", humanize.IBytes(info.SourceSize))
			fmt.Fprintf(out, "size:    %s\n", humanize.IBytes(uint64(info.IndexSize)))
			fmt.Fprintf(out, "digest:  %s\n", info.Digest)
			return nil
		},
	}
}

func newLenCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "len FILE",
		Short: "Print the number of records in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Close()
			fmt.Fprintln(cmd.OutOrStdout(), l.Len())
			return nil
		},
	}
}

func newGetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE INDEX...",
		Short: "Print records by position; negative positions count from the end",
		Long: `Print records by position; negative positions count from the end.

Separate negative positions from flags with --, as in: biglist get FILE -- -1`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				i, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("%w: bad index %q", biglist.ErrInvalidArgument, arg)
				}
				positions = append(positions, i)
			}

			l, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Close()

			for _, i := range positions {
				s, err := l.Get(i)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newChoiceCmd(g *globalFlags) *cobra.Command {
	var start, end, count int
	cmd := &cobra.Command{
		Use:   "choice FILE",
		Short: "Print random records from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Close()

			for range count {
				s, err := l.Choice(start, end)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "first eligible position (negative counts from the end)")
	cmd.Flags().IntVar(&end, "end", -1, "last eligible position, inclusive (negative counts from the end)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of records to print")
	return cmd
}

func newCatCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE",
		Short: "Print every record of FILE in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Close()

			out := cmd.OutOrStdout()
			for s, err := range l.All() {
				if err != nil {
					return err
				}
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
}
