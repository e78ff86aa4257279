package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tasklist rm [--yes] <id>" }
func (c *RmCmd) NeedsServer() bool { return true }
func (c *RmCmd) Interactive() bool { return false }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
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

	var confirm controller.Confirmer = promptConfirmer{in: s.In, errOut: s.Err}
	if c.yes {
		confirm = controller.AlwaysConfirm
	}

	ctrl := newController(ctx, svc)
	ctrl.SetFilter(filter)
	attempted, err := ctrl.Delete(ctx, id, confirm)
	if !attempted {
		if !cfg.Quiet {
			fmt.Fprintln(s.Out, "cancelled")
		}
		return exitcode.Success
	}
	return finishMutation(s, cfg, ctrl, err, id)
}
