// Package main is the entry point for the tasklist CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"

	"tasklist/internal/backend/httpapi"
	"tasklist/internal/cli"
	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return httpapi.New(cfg, logr.FromContextOrDiscard(ctx))
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], commands.Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})
	cancel()
	os.Exit(code)
}
