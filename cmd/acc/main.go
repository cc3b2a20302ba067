package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "acc",
		Short:         "AI Chat Calendar - browse exported AI conversations by day",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringSliceVarP(&f.imports, "import", "i", nil, "Export files or directories to ingest (default: config import_dirs)")
	pf.StringVarP(&f.query, "query", "q", "", "Case-insensitive search over title, content and tags")
	pf.StringSliceVarP(&f.platforms, "platform", "p", nil, "Restrict to platforms (repeatable, comma-separated; \"none\" selects no platform)")
	pf.StringVar(&f.scope, "scope", "", "View scope: home or all")
	pf.StringVar(&f.tag, "tag", "", "Restrict to records carrying this tag")
	pf.BoolVar(&f.currentSession, "current-session", false, "Include the current-session record")
	pf.BoolVar(&f.samples, "samples", false, "Load the built-in sample records")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(ingestCmd(f))
	rootCmd.AddCommand(listCmd(f))
	rootCmd.AddCommand(calendarCmd(f))
	rootCmd.AddCommand(statsCmd(f))
	rootCmd.AddCommand(showCmd(f))
	rootCmd.AddCommand(openCmd(f))
	rootCmd.AddCommand(exportCmd(f))
	rootCmd.AddCommand(searchCmd(f))
	rootCmd.AddCommand(serveCmd(f))
	rootCmd.AddCommand(doctorCmd(f))

	return rootCmd
}
