package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/starford/inkwell/internal"
	pkgconfig "github.com/starford/inkwell/pkg/config"
)

// loadConfig builds the configuration from defaults, the optional config
// file and finally the flags set on cmd.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if path := cmd.Args().First(); path != "" {
		cfg.Library.Path = path
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	if cmd.IsSet("no-navigation") {
		cfg.Library.NoNavigation = cmd.Bool("no-navigation")
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("host") {
		cfg.App.HTTP.Host = cmd.String("host")
	}
	if cmd.IsSet("no-search") {
		cfg.Search.Enabled = !cmd.Bool("no-search")
	}
	if cmd.IsSet("metrics") {
		cfg.Metrics.Enabled = cmd.Bool("metrics")
	}
	if cmd.IsSet("out") {
		cfg.Build.OutDir = cmd.String("out")
	}
	if cmd.IsSet("workers") {
		cfg.Build.Workers = int(cmd.Int("workers"))
	}

	if err := pkgconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rep, err := internal.Build(ctx, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("build error: %w", err)
	}
	fmt.Fprintf(cmd.Root().Writer, "wrote %d files to %s\n", len(rep.Files), rep.OutDir)
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.ServeMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp error: %w", err)
	}
	return nil
}

func noNavigationFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "no-navigation",
		Aliases: []string{"n"},
		Usage:   "Disable the index page and previous/next links",
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "inkwell",
		Usage: "Render a directory of Markdown files into styled HTML pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional config file",
				Value:   "inkwell.yaml",
				Sources: cli.EnvVars("INKWELL_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "serve",
				Usage:     "Serve the library over HTTP with live reload",
				ArgsUsage: "PATH",
				Action:    serve,
				Flags: []cli.Flag{
					noNavigationFlag(),
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
						Value:   3456,
					},
					&cli.StringFlag{
						Name:    "host",
						Aliases: []string{"H"},
						Usage:   "Address to bind",
						Value:   "127.0.0.1",
					},
					&cli.BoolFlag{
						Name:  "no-search",
						Usage: "Disable the full-text search index",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "Expose Prometheus metrics at /-/metrics",
					},
				},
			},
			{
				Name:      "build",
				Usage:     "Export the library as static HTML files",
				ArgsUsage: "PATH",
				Action:    build,
				Flags: []cli.Flag{
					noNavigationFlag(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory (defaults to PATH)",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Pages rendered concurrently (0 means one per CPU)",
					},
				},
			},
			{
				Name:      "mcp",
				Usage:     "Expose the library to MCP clients over stdio",
				ArgsUsage: "PATH",
				Action:    serveMCP,
			},
		},
	}
}

func main() {
	// Error ignored: Set only fails on an invalid GOMAXPROCS value, in which
	// case the runtime default stays in effect.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
