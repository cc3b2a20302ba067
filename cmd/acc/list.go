package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func listCmd(f *rootFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse records newest first",
		Long: `Opens a TUI panel over the filtered records when stdout is a terminal.
Output is TSV for pipes: id, date, platform, quality, starred, title, summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.filterOptions()
			if err != nil {
				return err
			}
			a, err := f.load()
			if err != nil {
				return err
			}

			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(a.lib, opts, cmd.ErrOrStderr())
			}

			recs := a.lib.Filtered(opts)
			if len(recs) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No records found.")
				return nil
			}
			writeTSV(cmd.OutOrStdout(), recs, a.lib.Location())
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Force TSV output")
	return cmd
}

func writeTSV(w io.Writer, recs []record.Record, loc *time.Location) {
	for _, r := range recs {
		star := "-"
		if r.Starred {
			star = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			r.ID,
			r.Date.In(loc).Format("2006-01-02 15:04"),
			r.Platform,
			r.Quality,
			star,
			oneLine(r.Title),
			oneLine(r.Summary),
		)
	}
}
