package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
)

// newController builds a controller for svc using the logger carried by ctx.
func newController(ctx context.Context, svc service.Service) *controller.Controller {
	return controller.New(svc, logr.FromContextOrDiscard(ctx))
}

// resolveFilter picks the --filter value if set, otherwise the configured one.
func resolveFilter(flagValue string, cfg *config.Config) (service.Filter, error) {
	value := flagValue
	if value == "" {
		value = cfg.Filter
	}
	if value == "" {
		return service.FilterAll, nil
	}
	return service.ParseFilter(value)
}

// printTasks writes the controller's visible tasks, or "no tasks found".
func printTasks(out io.Writer, cfg *config.Config, ctrl *controller.Controller) {
	if len(ctrl.Visible()) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}
	output.FormatTasks(out, ctrl.Tasks(), ctrl.Filter())
}

// printRefreshed writes the list after a successful mutation unless quiet.
func printRefreshed(out io.Writer, cfg *config.Config, ctrl *controller.Controller) {
	if cfg.Quiet {
		return
	}
	printTasks(out, cfg, ctrl)
}

// finishMutation reports the outcome of an add/toggle/edit/delete. A mutation
// the server accepted succeeds even if the list could not be refetched.
func finishMutation(s Streams, cfg *config.Config, ctrl *controller.Controller, err error, id int) int {
	if err == nil {
		printRefreshed(s.Out, cfg, ctrl)
		return exitcode.Success
	}
	if controller.Applied(err) {
		fmt.Fprintf(s.Err, "warning: %v\n", err)
		return exitcode.Success
	}
	return reportBackendError(s.Err, err, id)
}

// reportBackendError prints a backend failure and returns its exit code.
// A 404 for a known task id is reported as a user error.
func reportBackendError(errOut io.Writer, err error, id int) int {
	if id > 0 && errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// reportTaskIDError prints a task id parse failure.
func reportTaskIDError(errOut io.Writer, err error) int {
	if err == ErrTaskIDRequired {
		fmt.Fprintln(errOut, "error: task id required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// promptConfirmer asks on errOut and reads the answer from in.
// Only "y" or "yes" (any case) confirm; EOF declines.
type promptConfirmer struct {
	in     io.Reader
	errOut io.Writer
}

func (p promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.errOut, "%s [y/N] ", prompt)
	if p.in == nil {
		return false
	}
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
