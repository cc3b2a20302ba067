package main

import (
	"fmt"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/open"
	"github.com/spf13/cobra"
)

func openCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a record as Markdown in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.load()
			if err != nil {
				return err
			}
			r, ok := a.lib.Get(args[0])
			if !ok {
				return fmt.Errorf("record %q not found", args[0])
			}
			return open.Record(r, f.query)
		},
	}
}
