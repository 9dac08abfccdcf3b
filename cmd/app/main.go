package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/coachtools/tacticalhub/internal"
	"github.com/coachtools/tacticalhub/internal/mcpserver"
	"github.com/coachtools/tacticalhub/internal/store"
	pkgconfig "github.com/coachtools/tacticalhub/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
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

// runMCP serves the annotation tools over MCP stdio against the same
// persisted document the HTTP server uses. Logging goes to stderr so
// stdout stays clean for the protocol.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	var provider store.Provider
	switch cfg.Store.Driver {
	case internal.StoreDriverSQLite:
		provider, err = store.OpenSQLite(cfg.Store.Path)
	default:
		provider, err = store.NewFileProvider(cfg.Store.Path)
	}
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}
	defer provider.Close()

	st, err := store.New(provider)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	return mcpserver.New(st).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "tacticalhub",
		Usage:  "Match and athlete annotation hub for coaches, with grouped tactical notes, PDF reports and JSON backups",
		Action: run,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve annotation tools over MCP stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
