package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd runs the interactive task list.
type UICmd struct {
	filter string
}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *UICmd) Usage() string     { return "tasklist ui [--filter all|ongoing|completed]" }
func (c *UICmd) NeedsServer() bool { return true }
func (c *UICmd) Interactive() bool { return true }

func (c *UICmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.filter, "filter", "f", "", "")
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	filter, err := resolveFilter(c.filter, cfg)
	if err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(ctx, svc)
	ctrl.SetFilter(filter)
	if err := tui.Run(ctx, ctrl, s.In, s.Out); err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
