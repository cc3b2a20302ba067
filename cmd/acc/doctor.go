package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/config"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/export"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/ingest"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/parse"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
	"github.com/spf13/cobra"
)

func doctorCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, import dirs, parsers, and SQLite FTS5",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Fprintln(w, "=== Config ===")
			if cfg.Path == "" {
				fmt.Fprintln(w, "  File: (none, using defaults)")
			} else {
				fmt.Fprintf(w, "  File: %s\n", cfg.Path)
			}
			fmt.Fprintf(w, "  Home platform: %s\n", cfg.Home().DisplayName())
			fmt.Fprintf(w, "  Timezone: %s\n", cfg.Timezone)

			dirs := f.imports
			if len(dirs) == 0 {
				dirs = cfg.ImportDirs
			}
			fmt.Fprintln(w, "\n=== Import Dirs ===")
			for _, d := range dirs {
				checkDir(w, d)
			}

			fmt.Fprintln(w, "\n=== File Scan ===")
			files, err := ingest.ScanDirs(dirs...)
			if err != nil {
				fmt.Fprintf(w, "  scan error: %v\n", err)
			} else {
				counts := classifyFiles(files)
				for _, p := range record.AllPlatforms {
					fmt.Fprintf(w, "  %-12s %d\n", p.DisplayName(), counts[p])
				}
				fmt.Fprintf(w, "  %-12s %d\n", "Unknown", counts[""])
			}

			fmt.Fprintln(w, "\n=== Parsers ===")
			for _, p := range record.AllPlatforms {
				status := "not supported"
				if parse.Supported(p) {
					status = "OK"
				}
				fmt.Fprintf(w, "  %-12s %s\n", p.DisplayName(), status)
			}

			fmt.Fprintln(w, "\n=== JSON Export ===")
			if n, err := checkJSONExport(); err != nil {
				fmt.Fprintf(w, "  Round-trip error: %v\n", err)
			} else {
				fmt.Fprintf(w, "  Status: OK (%d records round-tripped)\n", n)
			}

			fmt.Fprintln(w, "\n=== SQLite FTS5 ===")
			if n, err := checkArchive(); err != nil {
				fmt.Fprintf(w, "  FTS5 error: %v\n", err)
			} else {
				fmt.Fprintf(w, "  Status: OK (%d hits on sample data)\n", n)
			}
			return nil
		},
	}
}

func checkDir(w io.Writer, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Fprintf(w, "  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Fprintf(w, "  %s (OK)\n", path)
	}
}

// classifyFiles counts files per detected platform; "" collects unreadable
// and unrecognized files.
func classifyFiles(files []ingest.FileInfo) map[record.Platform]int {
	counts := make(map[record.Platform]int)
	for _, fi := range files {
		data, err := os.ReadFile(fi.Path)
		if err != nil {
			counts[""]++
			continue
		}
		doc, err := parse.Decode(data)
		if err != nil {
			counts[""]++
			continue
		}
		p, ok := ingest.Classify(filepath.Base(fi.Path), doc)
		if !ok {
			p = ""
		}
		counts[p]++
	}
	return counts
}

// checkJSONExport writes the sample records as JSON and reads them back.
func checkJSONExport() (int, error) {
	samples := record.Samples(time.Now(), "doctor")
	var buf bytes.Buffer
	if err := (&export.JSONExporter{}).Export(samples, &buf); err != nil {
		return 0, err
	}
	back, err := export.ReadJSON(&buf)
	if err != nil {
		return 0, err
	}
	for i := range samples {
		if i >= len(back) || back[i].ID != samples[i].ID || back[i].Quality != samples[i].Quality {
			return 0, fmt.Errorf("record %d did not round-trip", i)
		}
	}
	if len(back) != len(samples) {
		return 0, fmt.Errorf("read %d records, want %d", len(back), len(samples))
	}
	return len(back), nil
}

// checkArchive round-trips the sample records through a scratch archive and
// runs one full-text query.
func checkArchive() (int, error) {
	dir, err := os.MkdirTemp("", "acc-doctor-")
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(dir)

	samples := record.Samples(time.Now(), "doctor")
	path := filepath.Join(dir, "doctor.db")
	if err := buildArchive(path, samples); err != nil {
		return 0, err
	}
	ar, err := export.OpenArchive(path)
	if err != nil {
		return 0, err
	}
	defer ar.Close()

	stored, err := ar.Records()
	if err != nil {
		return 0, err
	}
	if len(stored) != len(samples) {
		return 0, fmt.Errorf("archive holds %d records, want %d", len(stored), len(samples))
	}

	hits, err := ar.Search(export.SearchOptions{Query: "itinerary"})
	if err != nil {
		return 0, err
	}
	if len(hits) == 0 {
		return 0, fmt.Errorf("no hits for sample query")
	}
	return len(hits), nil
}
