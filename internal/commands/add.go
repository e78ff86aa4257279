package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "tasklist add <title...>" }
func (c *AddCmd) NeedsServer() bool { return true }
func (c *AddCmd) Interactive() bool { return false }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(s.Err, "error: title required")
		return exitcode.UserError
	}

	filter, err := resolveFilter("", cfg)
	if err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := newController(ctx, svc)
	ctrl.SetFilter(filter)
	return finishMutation(s, cfg, ctrl, ctrl.Add(ctx, title), 0)
}
