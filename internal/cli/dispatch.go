package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch. The logger for the current
// command is available via logr.FromContextOrDiscard(ctx).
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, s commands.Streams) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, s)
	}

	cmdName := args[0]
	if cmdName == "-h" || cmdName == "--help" {
		commands.WriteHelp(s.Out, d.registry)
		return exitcode.Success
	}

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(s.Err, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], s)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, s commands.Streams) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(s.Err, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, s)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, s commands.Streams) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	// Common flags
	var (
		configDir string
		server    string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&server, "server", "", "")
	fs.BoolVarP(&quiet, "quiet", "q", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			commands.WriteHelp(s.Out, d.registry)
			return exitcode.Success
		}
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.ConfigError
	}
	if fs.Changed("server") {
		cfg.Server = server
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log, closeLog := d.logger(cmd, cfg, s)
	defer closeLog()
	ctx = logr.NewContext(ctx, log)

	var svc service.Service
	if cmd.NeedsServer() {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(s.Err, "error: %v\n", err)
			return exitcode.ConfigError
		}
		if d.factory == nil {
			fmt.Fprintln(s.Err, "error: no backend configured")
			return exitcode.ConfigError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(s.Err, "error: %v\n", err)
			return exitcode.ConfigError
		}
		log.V(logging.DebugVerbosity).Info("dispatching", "command", cmd.Name(), "server", cfg.Server)
	}

	return cmd.Run(ctx, cfg, svc, fs.Args(), s)
}

// logger picks the command's logger. Interactive commands own the terminal,
// so they log to the file in the config directory.
func (d *Dispatcher) logger(cmd commands.Command, cfg *config.Config, s commands.Streams) (logr.Logger, func()) {
	if !cmd.Interactive() {
		return logging.ForCommand(s.Err, cfg.Debug), func() {}
	}
	if err := cfg.EnsureDir(); err != nil {
		return logr.Discard(), func() {}
	}
	log, closer, err := logging.OpenFile(cfg.LogPath(), cfg.Debug)
	if err != nil {
		return logr.Discard(), func() {}
	}
	return log, func() { _ = closer.Close() }
}
