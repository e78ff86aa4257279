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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: it flips a task between ongoing and
// completed, so running it twice restores the original status.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between ongoing and completed" }
func (c *DoneCmd) Usage() string     { return "tasklist done <id>" }
func (c *DoneCmd) NeedsServer() bool { return true }
func (c *DoneCmd) Interactive() bool { return false }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportTaskIDError(s.Err, err)
	}
	if len(args) > 1 {
		fmt.Fprintf(s.Err, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	filter, err := resolveFilter("", cfg)
	if err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(ctx, svc)
	ctrl.SetFilter(filter)

	// The current status comes from the server, not from the caller.
	if err := ctrl.Fetch(ctx); err != nil {
		return reportBackendError(s.Err, err, 0)
	}
	task, ok := ctrl.Lookup(id)
	if !ok {
		fmt.Fprintf(s.Err, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	return finishMutation(s, cfg, ctrl, ctrl.Toggle(ctx, task.ID, task.Status), id)
}
