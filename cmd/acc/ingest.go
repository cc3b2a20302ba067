package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/ingest"
	"github.com/spf13/cobra"
)

func ingestCmd(f *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ingest <file|dir>...",
		Short: "Ingest export files and report per-document outcomes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.newApp()
			if err != nil {
				return err
			}
			paths, err := importPaths(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no .json files found in %v", args)
			}

			before := a.lib.Len()
			res := a.lib.IngestFiles(paths)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printOutcomes(cmd.OutOrStdout(), res, before)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the batch result as JSON")
	return cmd
}

func printOutcomes(w io.Writer, res ingest.Result, existing int) {
	fmt.Fprintf(w, "batch %s\n", res.BatchID)
	for _, o := range res.Outcomes {
		if o.OK {
			fmt.Fprintf(w, "  ok    %-10s %s (%d records, %d skipped)\n", o.Platform, o.Name, o.Count, o.Skipped)
			for _, e := range o.Entries {
				fmt.Fprintf(w, "          entry #%d [%s] %s\n", e.Index, e.Kind, e.Message)
			}
			continue
		}
		platform := string(o.Platform)
		if platform == "" {
			platform = "-"
		}
		fmt.Fprintf(w, "  fail  %-10s %s [%s] %s\n", platform, o.Name, o.Kind, o.Message)
	}
	for _, r := range res.Added(existing) {
		fmt.Fprintf(w, "  + %s  %s  %s\n", r.Date.Format("2006-01-02"), r.ID, oneLine(r.Title))
	}
	fmt.Fprintln(w, res.Stats.String())
}
