package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ryanm101/flashman/internal/config"
	"github.com/ryanm101/flashman/internal/logging"
	"github.com/ryanm101/flashman/internal/tracing"
)

const version = "0.3.0"

var cfg *config.Config

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx := context.Background()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", version)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	// Load config
	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Setup Tracing
	shutdown, err := tracing.Setup(ctx, tracingConfig(cfg))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to setup tracing: %v\n", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
		logging.Close()
	}()

	if err := newApp().Run(ctx, os.Args); err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}
	return 0
}

func tracingConfig(c *config.Config) tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Endpoint = c.GetTracingEndpoint()
	tc.Insecure = c.GetTracingInsecure()
	if c.Tracing.SampleRatio > 0 {
		tc.SampleRatio = c.Tracing.SampleRatio
	}
	tc.Version = version
	if u, err := url.Parse(c.GetCatalogURL()); err == nil {
		tc.CatalogHost = u.Host
	}
	return tc
}

// setupLogging configures logging for a command. The TUI owns the terminal,
// so browse always logs to a file.
func setupLogging(toFile bool) error {
	lc := logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
		File:   cfg.GetLogFile(),
	}
	if toFile && lc.File == "" {
		c := *cfg
		c.Logging.File = defaultLogFile
		lc.File = c.GetLogFile()
	}
	return logging.Setup(lc)
}
