package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklist` (no args) and `tasklist list`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter flag (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tasklist list [--filter all|ongoing|completed]" }
func (c *ListCmd) NeedsServer() bool { return true }
func (c *ListCmd) Interactive() bool { return false }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.filter, "filter", "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	if len(args) > 0 {
		fmt.Fprintf(s.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := resolveFilter(c.filter, cfg)
	if err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(ctx, svc)
	ctrl.SetFilter(filter)
	if err := ctrl.Fetch(ctx); err != nil {
		return reportBackendError(s.Err, err, 0)
	}

	printTasks(s.Out, cfg, ctrl)
	return exitcode.Success
}
