package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
)

func init() {
	Register(&HTMLCmd{})
}

// HTMLCmd writes the task list as an HTML fragment.
type HTMLCmd struct {
	filter    string
	editingID int
}

func (c *HTMLCmd) Name() string      { return "html" }
func (c *HTMLCmd) Aliases() []string { return nil }
func (c *HTMLCmd) Synopsis() string  { return "Render the task list as HTML" }
func (c *HTMLCmd) Usage() string {
	return "tasklist html [--filter all|ongoing|completed] [--edit <id>]"
}
func (c *HTMLCmd) NeedsServer() bool { return true }
func (c *HTMLCmd) Interactive() bool { return false }

func (c *HTMLCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.filter, "filter", "f", "", "")
	fs.IntVar(&c.editingID, "edit", 0, "")
}

func (c *HTMLCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	if len(args) > 0 {
		fmt.Fprintf(s.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.editingID < 0 {
		fmt.Fprintf(s.Err, "error: invalid task id: %d\n", c.editingID)
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
	if c.editingID > 0 {
		if code := c.checkEditing(ctrl, s); code != exitcode.Success {
			return code
		}
	}

	opts := output.HTMLOptions{Filter: ctrl.Filter(), EditingID: c.editingID}
	if err := output.RenderHTML(s.Out, ctrl.Tasks(), opts); err != nil {
		fmt.Fprintf(s.Err, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// checkEditing makes sure the --edit row is among the rendered ones.
func (c *HTMLCmd) checkEditing(ctrl *controller.Controller, s Streams) int {
	task, ok := ctrl.Lookup(c.editingID)
	if !ok {
		fmt.Fprintf(s.Err, "error: task not found: %d\n", c.editingID)
		return exitcode.UserError
	}
	if !ctrl.Filter().Match(task) {
		fmt.Fprintf(s.Err, "error: task %d is hidden by filter %s\n", task.ID, ctrl.Filter())
		return exitcode.UserError
	}
	return exitcode.Success
}
