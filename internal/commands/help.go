package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasklist help" }
func (c *HelpCmd) NeedsServer() bool { return false }
func (c *HelpCmd) Interactive() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, s Streams) int {
	WriteHelp(s.Out, DefaultRegistry)
	return exitcode.Success
}

// WriteHelp prints the usage of every command in r.
func WriteHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %-58s %s\n", "tasklist", "List tasks")
	for _, cmd := range r.All() {
		line := cmd.Usage()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "  %-58s %s\n", line, cmd.Synopsis())
	}
	fmt.Fprint(w, commonFlagsText)
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --server <url>   Task server base URL (env TASKLIST_SERVER)
  --quiet, -q      Suppress informational output
  --debug          Print debug logs to stderr
`
