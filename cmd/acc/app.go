package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/config"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/ingest"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/library"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	imports        []string
	query          string
	platforms      []string
	scope          string
	tag            string
	currentSession bool
	samples        bool
	verbose        bool
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	lib    *library.Library
}

// newApp loads config and builds an empty library.
func (f *rootFlags) newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	level := cfg.Level()
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	lib := library.New(library.Options{
		Home:     cfg.Home(),
		UserID:   cfg.UserID,
		Location: loc,
		Logger:   logger,
	})
	return &app{cfg: cfg, logger: logger, lib: lib}, nil
}

// load builds the app and fills the library from imports, samples and the
// current session.
func (f *rootFlags) load() (*app, error) {
	a, err := f.newApp()
	if err != nil {
		return nil, err
	}

	if f.samples {
		a.lib.AddSamples()
	}
	if f.currentSession || a.cfg.IncludeCurrentSession {
		a.lib.AddCurrentSession()
	}

	sources := f.imports
	if len(sources) == 0 {
		sources = a.cfg.ImportDirs
	}
	paths, err := importPaths(sources)
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		res := a.lib.IngestFiles(paths)
		a.logger.Info("import complete", "batch", res.BatchID, "stats", res.Stats.String())
		for _, o := range res.Outcomes {
			if !o.OK {
				a.logger.Warn("import failed", "document", o.Name, "kind", o.Kind, "error", o.Message)
			}
		}
	}
	return a, nil
}

// importPaths expands directories into their .json files. Explicit files are
// kept as given, even when missing, so the ingest report names them.
func importPaths(sources []string) ([]string, error) {
	var paths []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			if err != nil && os.IsNotExist(err) && looksLikeDir(src) {
				continue
			}
			paths = append(paths, src)
			continue
		}
		files, err := ingest.ScanDirs(src)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", src, err)
		}
		paths = append(paths, ingest.Paths(files)...)
	}
	return paths, nil
}

func looksLikeDir(p string) bool {
	return !strings.HasSuffix(strings.ToLower(p), ".json")
}

// filterOptions turns the shared flags into aggregate options.
func (f *rootFlags) filterOptions() (aggregate.Options, error) {
	scope, err := aggregate.ParseScope(f.scope)
	if err != nil {
		return aggregate.Options{}, err
	}
	platforms, err := aggregate.ParsePlatforms(f.platforms)
	if err != nil {
		return aggregate.Options{}, err
	}
	return aggregate.Options{Query: f.query, Platforms: platforms, Scope: scope, Tag: f.tag}, nil
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
