package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/spf13/cobra"
)

func statsCmd(f *rootFlags) *cobra.Command {
	var asJSON bool
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the filtered records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.filterOptions()
			if err != nil {
				return err
			}
			a, err := f.load()
			if err != nil {
				return err
			}
			an := a.lib.Analytics(opts)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(an)
			}
			printAnalytics(cmd.OutOrStdout(), an, top)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print analytics as JSON")
	cmd.Flags().IntVar(&top, "top", 5, "Number of tags to rank")
	return cmd
}

func printAnalytics(w io.Writer, an aggregate.Analytics, top int) {
	fmt.Fprintf(w, "Total:    %d\n", an.Total)
	fmt.Fprintf(w, "Starred:  %d\n", an.Starred)
	fmt.Fprintf(w, "Quality:  %.1f\n", an.AverageQuality)

	fmt.Fprintln(w, "\n=== Platforms ===")
	for _, p := range record.AllPlatforms {
		if n := an.ByPlatform[p]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", p.DisplayName(), n)
		}
	}

	fmt.Fprintln(w, "\n=== Top Tags ===")
	for _, tc := range an.TopTags(top) {
		fmt.Fprintf(w, "  %-12s %d\n", tc.Tag, tc.Count)
	}
}
