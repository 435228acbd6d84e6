package main

import (
	"fmt"
	"os"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/logger"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:        "terraingen",
		Usage:       "generate and stream procedural terrain without a window",
		Description: "preview writes chunk textures as PNG, stream runs a scripted viewer against the chunk manager",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the configuration file (default: ./" + config.FileName + ")",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override logging.level",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "override noise.seed",
			},
		},
		Commands: []*cli.Command{
			previewCommand(),
			streamCommand(),
			{
				Name:      "dump-config",
				Usage:     "write the effective configuration as YAML",
				ArgsUsage: "<path>",
				Action:    commandDumpConfig,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "terraingen:", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file, applies global flag overrides, clamps
// the result and starts logging.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.Path("config"))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("log-level") {
		cfg.Logging.Level = ctx.String("log-level")
	}
	if ctx.IsSet("seed") {
		cfg.Noise.Seed = ctx.Int64("seed")
	}
	fixes := cfg.Sanitize()

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.LogFileConfig(), true); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	for _, fix := range fixes {
		logger.Warn("config value clamped", zap.String("fix", fix))
	}
	return cfg, nil
}

func commandDumpConfig(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("dump-config takes exactly one path", 2)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path := ctx.Args().First()
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", path))
	return nil
}
