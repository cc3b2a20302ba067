package main

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd(f *rootFlags) *cobra.Command {
	var format, out, name string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records to a file",
		Long:  "Formats: " + strings.Join(export.Formats(), ", ") + ". Use --out - for stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := export.NewExporter(format)
			if err != nil {
				return err
			}
			opts, err := f.filterOptions()
			if err != nil {
				return err
			}
			a, err := f.load()
			if err != nil {
				return err
			}
			recs := a.lib.Filtered(opts)

			if out == "-" {
				return exp.Export(recs, cmd.OutOrStdout())
			}
			if out == "" {
				out = a.cfg.ExportDir
			}
			path, err := export.WriteFile(out, name, exp, recs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(recs), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory, or - for stdout (default: config export_dir)")
	cmd.Flags().StringVar(&name, "name", "ai-conversations", "Base file name")
	return cmd
}
