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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's title" }
func (c *EditCmd) Usage() string     { return "tasklist edit <id> <title...>" }
func (c *EditCmd) NeedsServer() bool { return true }
func (c *EditCmd) Interactive() bool { return false }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportTaskIDError(s.Err, err)
	}

	title := strings.TrimSpace(strings.Join(args[1:], " "))
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
	return finishMutation(s, cfg, ctrl, ctrl.SaveEdit(ctx, id, title), id)
}
