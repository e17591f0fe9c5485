package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "open the interactive browser (default)",
		Flags:  []cli.Flag{metricsAddrFlag()},
		Action: browseAction,
	}
}

func metricsAddrFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve /metrics and /health on this address",
	}
}

func browseAction(ctx context.Context, cmd *cli.Command) error {
	if err := setupLogging(true); err != nil {
		return err
	}

	rt, err := openRuntime(ctx)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer rt.Close()

	addr := cfg.Metrics.Addr
	if cmd.IsSet("metrics-addr") {
		addr = cmd.String("metrics-addr")
	}
	if addr != "" {
		stop := serveMonitoring(addr)
		defer stop()
	}

	p := tea.NewProgram(newModel(rt.service), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
