// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsServer returns true if the command talks to the task server.
	// Commands like help and version return false.
	NeedsServer() bool

	// Interactive returns true if the command owns the terminal, in which
	// case logs go to the log file instead of stderr.
	Interactive() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// svc is nil if NeedsServer() returns false.
	// The command's logger is carried by ctx (logr.FromContextOrDiscard).
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int
}
