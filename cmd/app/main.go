package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/jinsol/rememberme/internal"
	"github.com/jinsol/rememberme/internal/ai"
	"github.com/jinsol/rememberme/internal/index"
	"github.com/jinsol/rememberme/internal/journal"
	"github.com/jinsol/rememberme/internal/journalservice"
	"github.com/jinsol/rememberme/internal/mcpserver"
	"github.com/jinsol/rememberme/internal/storage"
	pkgconfig "github.com/jinsol/rememberme/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP serves journal tools over stdio for MCP clients. Logs go to
// stderr because stdout carries the protocol stream.
func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	if err := os.MkdirAll(cfg.Journal.Path, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	provider, err := storage.NewFS(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	store := journal.NewStore(provider, logger)

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if _, err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	var aiOpts []ai.Option
	if cfg.AI.Model != "" {
		aiOpts = append(aiOpts, ai.WithModel(cfg.AI.Model))
	}
	if cfg.AI.BaseURL != "" {
		aiOpts = append(aiOpts, ai.WithBaseURL(cfg.AI.BaseURL))
	}
	if cfg.AI.MaxTokens > 0 {
		aiOpts = append(aiOpts, ai.WithMaxTokens(int64(cfg.AI.MaxTokens)))
	}
	svc := journalservice.NewService(store, db, aiOpts...)

	return mcpserver.New(svc).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "rememberme",
		Usage:  "Family memory journal with media attachments, full-text search, and AI captioning",
		Action: run,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve journal tools over stdio for MCP clients",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
