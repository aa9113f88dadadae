package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/wikitree/internal"
	pkgconfig "github.com/starford/wikitree/pkg/config"
)

var version = "dev"

// newApp loads the configuration named by the global flags and builds the
// application.
func newApp(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// The flag wins over the file.
	if wiki := cmd.String("wiki"); wiki != "" {
		cfg.Wiki.Path = wiki
	}
	return internal.New(internal.WithConfig(cfg), internal.WithVersion(version))
}

// positionArg parses the optional position argument at index n.
func positionArg(cmd *cli.Command, n int) (*int, error) {
	raw := cmd.Args().Get(n)
	if raw == "" {
		return nil, nil
	}
	pos, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("position %q is not a number", raw)
	}
	return &pos, nil
}

func requireArgs(cmd *cli.Command, lo, hi int) error {
	if n := cmd.Args().Len(); n < lo || n > hi {
		return fmt.Errorf("%s: expected %s", cmd.Name, cmd.ArgsUsage)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "wikitree",
		Usage:   "Keep a directory-per-page GitHub wiki ordered and navigable",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("WIKITREE_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "wiki",
				Aliases: []string{"w"},
				Usage:   "Path to the wiki directory (overrides wiki.path)",
				Sources: cli.EnvVars("WIKITREE_WIKI_PATH"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the root page of a new wiki",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.Init(ctx, cmd.Root().Writer)
				},
			},
			{
				Name:    "update",
				Aliases: []string{"nav-update"},
				Usage:   "Regenerate the sidebar and footer of every page",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.UpdateNavigation(ctx, cmd.Root().Writer)
				},
			},
			{
				Name:      "add",
				Usage:     "Add a page below another page, shifting later siblings",
				ArgsUsage: "NAME UNDER [POSITION]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 2, 3); err != nil {
						return err
					}
					pos, err := positionArg(cmd, 2)
					if err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.AddPage(ctx, cmd.Root().Writer, cmd.Args().Get(0), cmd.Args().Get(1), pos)
				},
			},
			{
				Name:      "move",
				Usage:     "Move a page and its children below another page",
				ArgsUsage: "NAME UNDER [POSITION]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 2, 3); err != nil {
						return err
					}
					pos, err := positionArg(cmd, 2)
					if err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.MovePage(ctx, cmd.Root().Writer, cmd.Args().Get(0), cmd.Args().Get(1), pos)
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a page without children, closing the gap",
				ArgsUsage: "NAME",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.RemovePage(ctx, cmd.Root().Writer, cmd.Args().Get(0))
				},
			},
			{
				Name:  "list",
				Usage: "Print the page tree in reading order",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.ListPages(ctx, cmd.Root().Writer)
				},
			},
			{
				Name:      "nav",
				Usage:     "Print the sidebar and footer of a page without writing them",
				ArgsUsage: "NAME",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.ShowNavigation(ctx, cmd.Root().Writer, cmd.Args().Get(0))
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate navigation whenever pages change",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.Watch(ctx)
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the HTTP API and keep navigation up to date",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					if err := app.Serve(ctx); err != nil {
						return fmt.Errorf("app run error: %w", err)
					}
					return nil
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve the MCP tools on stdin/stdout",
				Action: func(_ context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.ServeMCP()
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
