package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/wodforge/internal/config"
	"github.com/claude/wodforge/internal/seed"
	"github.com/claude/wodforge/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dataPath := flag.String("path", "workouts_data.json", "path to the spreadsheet export JSON")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing to the database")
	force := flag.Bool("force", false, "re-apply even if this file was already seeded")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("wodforge-seed", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	info, err := os.Stat(*dataPath)
	if err != nil {
		log.Error("seed file not found", "path", *dataPath, "error", err)
		os.Exit(1)
	}
	hash, err := seed.HashFile(*dataPath)
	if err != nil {
		log.Error("hashing seed file failed", "error", err)
		os.Exit(1)
	}

	// State database remembers applied files across runs.
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := seed.OpenStateDB(filepath.Join(homeDir, ".wodforge-seed"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if !*force && !*dryRun {
		seeded, err := state.IsSeeded(*dataPath, info.Size(), hash)
		if err != nil {
			log.Error("state check failed", "error", err)
			os.Exit(1)
		}
		if seeded {
			log.Info("seed file already applied, nothing to do", "path", *dataPath)
			return
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written")
	}

	res, err := seed.New(db, log).Run(ctx, *dataPath, *dryRun)
	if err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	if !*dryRun {
		if err := state.MarkSeeded(*dataPath, info.Size(), hash); err != nil {
			log.Error("recording seed state failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("done",
		"movements", res.Movements,
		"pool_entries", res.PoolEntries,
		"skipped_rows", res.SkippedRows,
	)
}
