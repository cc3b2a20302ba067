package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func showCmd(f *rootFlags) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one record with role-colored turns",
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

			tty := term.IsTerminal(int(os.Stdout.Fd()))
			if width <= 0 {
				width = 100
				if tty {
					if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
						width = w
					}
				}
			}

			out, _ := render.Record(r, render.Options{Width: width, Query: f.query, Plain: !tty})
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default: terminal width)")
	return cmd
}
