// Command kbimport loads question/answer pairs from HTML FAQ pages into the knowledge base.
//
//	kbimport faq.html more/faq.html
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/set-night/eduassist"
	"github.com/set-night/eduassist/internal/config"
	"github.com/set-night/eduassist/internal/domain"
	"github.com/set-night/eduassist/internal/knowledge"
	"github.com/set-night/eduassist/internal/repository"
	"github.com/set-night/eduassist/internal/service"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "parse and report entries without writing them")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-dry-run] file.html...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	entries, err := parseFiles(flag.Args())
	if err != nil {
		slog.Error("failed to parse input", "error", err)
		os.Exit(1)
	}
	slog.Info("parsed knowledge entries", "count", len(entries), "files", flag.NArg())

	if *dryRun {
		for _, e := range entries {
			fmt.Printf("%s\n\t%s\n", e.Question, e.Answer)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	if cfg.StorageDriver != config.StorageDriverPostgres {
		slog.Error("kbimport writes to PostgreSQL; set STORAGE_DRIVER=postgres")
		os.Exit(1)
	}
	if err := cfg.RequireDatabase(); err != nil {
		slog.Error("invalid storage config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrationsFS, err := fs.Sub(eduassist.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	pg, err := repository.OpenPostgres(ctx, cfg.DatabaseURL, migrationsFS)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	imported, err := service.NewKnowledgeService(pg, cfg.StoreTimeout).ImportEntries(ctx, entries)
	if err != nil {
		slog.Error("import stopped", "error", err, "imported", imported)
		os.Exit(1)
	}
	slog.Info("knowledge import finished", "imported", imported)
}

func parseFiles(paths []string) ([]domain.KnowledgeEntry, error) {
	var all []domain.KnowledgeEntry
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		entries, err := knowledge.ParseHTML(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		slog.Debug("parsed file", "path", path, "entries", len(entries))
		all = append(all, entries...)
	}
	return all, nil
}
