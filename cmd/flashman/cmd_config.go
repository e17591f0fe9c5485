package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const configFile = ".flashman.yaml"

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "show or create configuration",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "show active configuration",
				Action: showConfig,
			},
			{
				Name:   "init",
				Usage:  "write an example " + configFile,
				Action: initConfig,
			},
		},
	}
}

func showConfig(_ context.Context, _ *cli.Command) error {
	if outputCfg.JSON {
		PrintResult(cfg)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, _ = fmt.Fprintln(stdout, "# Active Configuration")
	_, _ = fmt.Fprintln(stdout, string(data))
	_, _ = fmt.Fprintln(stdout, "# Collection:", cfg.GetCollectionPath())
	_, _ = fmt.Fprintln(stdout, "# Cache:", cfg.GetCacheDir())
	return nil
}

const exampleConfig = `# flashman configuration
data_dir: game_data

catalog_url: https://db-api.unstable.life
asset_url: https://infinity.unstable.life

# Results appended per scroll
page_size: 15

cache:
  backend: file   # file or sqlite

assets:
  workers: 4

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json
  file: ""      # relative paths are under data_dir

metrics:
  addr: ""      # e.g. :9090 to serve /metrics while browsing

tracing:
  endpoint: ""      # OTLP gRPC collector, e.g. localhost:4317
  insecure: true
  sample_ratio: 1
`

func initConfig(_ context.Context, _ *cli.Command) error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(configFile, []byte(exampleConfig), 0o644); err != nil { //nolint:gosec // Config is not secret
		return fmt.Errorf("failed to write config: %w", err)
	}

	if outputCfg.JSON {
		PrintResult(map[string]string{"path": configFile, "status": "created"})
	} else {
		PrintInfo("Created %s\n", configFile)
	}
	return nil
}
