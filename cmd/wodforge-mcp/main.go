package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/wodforge/internal/config"
	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	wodmcp "github.com/claude/wodforge/internal/mcp"
	"github.com/claude/wodforge/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode: direct database access)")
	serverURL := flag.String("server", "", "wodforge server URL (remote mode: data via REST API)")
	apiKey := flag.String("api-key", os.Getenv("WODFORGE_AUTH_API_KEY"), "API key for remote mutations")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("wodforge-mcp", Version)
		return
	}

	// Logs go to stderr; stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds wodmcp.DataSource
	switch {
	case *serverURL != "":
		ds = wodmcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "server", *serverURL)
	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		mgr := lifecycle.New(db, engine.NewShufflingGenerator(), log)
		ds = wodmcp.NewLocal(db, mgr)
		log.Info("local mode", "database", cfg.Database.Name)
	default:
		fmt.Fprintf(os.Stderr, "Usage: wodforge-mcp -config <file> | -server <URL> [-api-key <key>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := wodmcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
