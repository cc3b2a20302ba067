package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/spf13/cobra"
)

func calendarCmd(f *rootFlags) *cobra.Command {
	var month string
	var days bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show records grouped by local calendar day",
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
			groups := a.lib.Calendar(opts)

			if days {
				printDays(cmd.OutOrStdout(), groups)
				return nil
			}

			year, mon, err := parseMonth(month, time.Now().In(a.lib.Location()))
			if err != nil {
				return err
			}
			printMonth(cmd.OutOrStdout(), aggregate.Month(groups, year, mon, a.lib.Location()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show as YYYY-MM (default: current)")
	cmd.Flags().BoolVar(&days, "days", false, "List every day that has records instead of a month grid")
	return cmd
}

func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --month %q (want YYYY-MM)", s)
	}
	return t.Year(), t.Month(), nil
}

// printMonth draws a Monday-first grid with the record count per day.
func printMonth(w io.Writer, month []aggregate.Day) {
	if len(month) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", month[0].Date.Format("January 2006"))
	fmt.Fprintln(w, " Mon  Tue  Wed  Thu  Fri  Sat  Sun")

	offset := (int(month[0].Date.Weekday()) + 6) % 7
	var b strings.Builder
	b.WriteString(strings.Repeat("     ", offset))
	for i, d := range month {
		cell := fmt.Sprintf("%3d", d.Date.Day())
		if n := len(d.Records); n > 0 {
			cell += fmt.Sprintf("%-2s", marker(n))
		} else {
			cell += "  "
		}
		b.WriteString(cell)
		if (offset+i+1)%7 == 0 {
			fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
			b.Reset()
		}
	}
	if b.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	for _, d := range month {
		if len(d.Records) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", d.Key)
		printDayRecords(w, d.Records)
	}
}

func marker(n int) string {
	if n > 9 {
		return "+"
	}
	return fmt.Sprintf("%d", n)
}

func printDays(w io.Writer, groups map[string][]record.Record) {
	for i, k := range aggregate.DayKeys(groups) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", k, len(groups[k]))
		printDayRecords(w, groups[k])
	}
}

func printDayRecords(w io.Writer, recs []record.Record) {
	for _, r := range recs {
		star := " "
		if r.Starred {
			star = "*"
		}
		fmt.Fprintf(w, "  %s %-10s %s  %s\n", star, r.Platform, r.ID, oneLine(r.Title))
	}
}
