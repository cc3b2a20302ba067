package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/export"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorDim     = "\033[2m"
)

var platformColors = map[record.Platform]string{
	record.Claude:     "\033[1;33m",
	record.ChatGPT:    "\033[1;32m",
	record.Gemini:     "\033[1;34m",
	record.Perplexity: "\033[1;36m",
	record.Copilot:    "\033[1;35m",
}

func colorizePlatform(p record.Platform) string {
	if c, ok := platformColors[p]; ok {
		return c + string(p) + sColorReset
	}
	return string(p)
}

var (
	snippetColor = strings.NewReplacer(">>>", sColorBoldRed, "<<<", sColorReset)
	snippetPlain = strings.NewReplacer(">>>", "", "<<<", "")
)

func colorizeSnippet(snippet string) string { return snippetColor.Replace(snippet) }

func stripSnippet(snippet string) string { return snippetPlain.Replace(snippet) }

func searchCmd(f *rootFlags) *cobra.Command {
	var archivePath string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over a SQLite archive",
		Long: `Search with FTS5 ranking. With --archive, searches a file written by
'acc export --format sqlite'; otherwise the loaded records are archived to a
temporary database first. Output is TSV: id, date, platform, title, snippet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.filterOptions()
			if err != nil {
				return err
			}

			path := archivePath
			if path == "" {
				a, err := f.load()
				if err != nil {
					return err
				}
				dir, err := os.MkdirTemp("", "acc-search-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				path = filepath.Join(dir, "search.db")
				if err := buildArchive(path, a.lib.Filtered(opts)); err != nil {
					return err
				}
			}

			ar, err := export.OpenArchive(path)
			if err != nil {
				return err
			}
			defer ar.Close()

			if opts.Platforms != nil && len(opts.Platforms) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No results found.")
				return nil
			}
			so := export.SearchOptions{Query: args[0], Tag: opts.Tag, Limit: limit}
			if len(opts.Platforms) == 1 {
				so.Platform = opts.Platforms[0]
			}
			hits, err := ar.Search(so)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No results found.")
				return nil
			}
			writeHits(cmd.OutOrStdout(), hits, term.IsTerminal(int(os.Stdout.Fd())))
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "SQLite archive to search")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	return cmd
}

func buildArchive(path string, recs []record.Record) error {
	ar, err := export.OpenArchive(path)
	if err != nil {
		return err
	}
	if err := ar.Insert(recs); err != nil {
		ar.Close()
		return err
	}
	return ar.Close()
}

func writeHits(w io.Writer, hits []export.Hit, color bool) {
	for _, h := range hits {
		snippet := oneLine(h.Snippet)
		platform := string(h.Platform)
		date := h.Date
		if color {
			snippet = colorizeSnippet(snippet)
			platform = colorizePlatform(h.Platform)
			date = sColorDim + date + sColorReset
		} else {
			snippet = stripSnippet(snippet)
		}
		// id stays plain for piping into 'acc show'
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", h.ID, date, platform, oneLine(h.Title), snippet)
	}
}
