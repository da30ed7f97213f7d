// Command est runs the event-routing engine against a TOML graph
// configuration until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vftdan/est-go/internal/config"
	"github.com/vftdan/est-go/internal/engine"
)

func main() {
	configPath := flag.String("config", "", "path to the graph's TOML configuration file")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "est: -config is required")
		os.Exit(2)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "est:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	e, err := engine.New()
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}
	defer e.Close()

	doc, err := config.Load(configPath)
	if err != nil {
		return err
	}

	g, err := config.Build(doc, e.Runtime)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	defer g.Close()

	if err := g.RegisterIO(); err != nil {
		return fmt.Errorf("register i/o: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.Run(func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	})

	return nil
}
