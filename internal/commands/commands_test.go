package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runCommandWithInput(t, cmd, svc, args, quiet, "")
}

// runCommandWithInput is runCommand with stdin content for prompts.
func runCommandWithInput(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool, input string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var s service.Service
	if svc != nil {
		s = svc
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, s, args, commands.Streams{
		In:  strings.NewReader(input),
		Out: &outBuf,
		Err: &errBuf,
	})
	return outBuf.String(), errBuf.String(), code
}

// parseFlags registers cmd's flags and parses args into them.
func parseFlags(t *testing.T, cmd commands.Command, args ...string) {
	t.Helper()
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
}

func checkResult(t *testing.T, code, wantCode int, got, want, stream string) {
	t.Helper()
	if code != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, code)
	}
	if got != want {
		t.Errorf("expected %s %q, got %q", stream, want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	checkResult(t, code, exitcode.Success, stdout, "tasklist 0.1.0\n", "stdout")
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "tasklist add <title...> (create)", "tasklist ui", "--server <url>"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q, got:\n%s", want, stdout)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)
	svc.AddTask("Walk dog", service.StatusCompleted)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	checkResult(t, code, exitcode.Success, stdout, "   1  [ongoing]   Buy milk\n   2  [completed] Walk dog\n", "stdout")
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	checkResult(t, code, exitcode.Success, stdout, "no tasks found\n", "stdout")
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, true)

	checkResult(t, code, exitcode.Success, stdout, "", "stdout")
}

func TestListCommand_Filter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)
	svc.AddTask("Walk dog", service.StatusCompleted)

	cmd := &commands.ListCmd{}
	cmd.SetFilter("ongoing")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expected := "------------\nongoing\n------------\n   1  [ongoing]   Buy milk\n"
	checkResult(t, code, exitcode.Success, stdout, expected, "stdout")
}

func TestListCommand_FilterFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	cmd := &commands.ListCmd{}
	parseFlags(t, cmd, "-f", "completed")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	checkResult(t, code, exitcode.Success, stdout, "no tasks found\n", "stdout")
}

func TestListCommand_InvalidFilter(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("bogus")
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: invalid filter: bogus\n", "stderr")
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), []string{"extra"}, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: unexpected argument: extra\n", "stderr")
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	checkResult(t, code, exitcode.BackendError, stderr, "error: backend error: connection refused\n", "stderr")
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	checkResult(t, code, exitcode.Success, stdout, "   1  [ongoing]   Buy milk\n", "stdout")
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	calls := svc.Calls()
	if len(calls) != 2 || calls[0].Method != "CreateTask" || calls[0].Title != "Buy milk" {
		t.Errorf("expected CreateTask then ListTasks, got %+v", calls)
	}
}

func TestAddCommand_TrimsTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	_, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"  Buy milk  "}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := svc.Snapshot()[0].Title; got != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", got)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, true)

	checkResult(t, code, exitcode.Success, stdout, "", "stdout")
}

func TestAddCommand_NoTitle(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}} {
		svc := testutil.NewFakeService()

		_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, args, false)

		checkResult(t, code, exitcode.UserError, stderr, "error: title required\n", "stderr")
		if n := len(svc.Calls()); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("POST /api/tasks: unexpected status 500")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, false)

	checkResult(t, code, exitcode.BackendError, stderr, "error: backend error: POST /api/tasks: unexpected status 500\n", "stderr")
}

func TestAddCommand_RefetchFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, false)

	checkResult(t, code, exitcode.Success, stderr, "warning: task list not refreshed: connection refused\n", "stderr")
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if len(svc.Snapshot()) != 1 {
		t.Errorf("expected the task to be created, got %+v", svc.Snapshot())
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"#1"}, false)

	checkResult(t, code, exitcode.Success, stdout, "   1  [completed] Buy milk\n", "stdout")
	if svc.CallCount("UpdateStatus") != 1 {
		t.Errorf("expected one UpdateStatus call, got %+v", svc.Calls())
	}
}

func TestDoneCommand_TwiceRestoresStatus(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, true)
	runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, true)

	if got := svc.Snapshot()[0].Status; got != service.StatusOngoing {
		t.Errorf("expected status %q, got %q", service.StatusOngoing, got)
	}
}

func TestDoneCommand_NoID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), nil, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task id required\n", "stderr")
}

func TestDoneCommand_InvalidID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), []string{"abc"}, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: invalid task id: abc\n", "stderr")
}

func TestDoneCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"9"}, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task not found: 9\n", "stderr")
	if svc.CallCount("UpdateStatus") != 0 {
		t.Error("expected no UpdateStatus call for unknown id")
	}
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	stdout, _, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1", "Buy", "oat", "milk"}, false)

	checkResult(t, code, exitcode.Success, stdout, "   1  [ongoing]   Buy oat milk\n", "stdout")
}

func TestEditCommand_NoTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1", " "}, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: title required\n", "stderr")
	if n := len(svc.Calls()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestEditCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"7", "x"}, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task not found: 7\n", "stderr")
}

// Tests for rm command
func TestRmCommand_Yes(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)
	svc.AddTask("Walk dog", service.StatusOngoing)

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	checkResult(t, code, exitcode.Success, stdout, "   2  [ongoing]   Walk dog\n", "stdout")
	if stderr != "" {
		t.Errorf("expected no prompt with --yes, got %q", stderr)
	}
}

func TestRmCommand_PromptDeclined(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	stdout, stderr, code := runCommandWithInput(t, &commands.RmCmd{}, svc, []string{"1"}, false, "n\n")

	checkResult(t, code, exitcode.Success, stdout, "cancelled\n", "stdout")
	if stderr != "Are you sure you want to delete this task? [y/N] " {
		t.Errorf("unexpected prompt %q", stderr)
	}
	if n := len(svc.Calls()); n != 0 {
		t.Errorf("expected no requests, got %+v", svc.Calls())
	}
}

func TestRmCommand_PromptEOFDeclines(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	_, _, code := runCommandWithInput(t, &commands.RmCmd{}, svc, []string{"1"}, true, "")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if len(svc.Snapshot()) != 1 {
		t.Error("task should not be deleted")
	}
}

func TestRmCommand_PromptConfirmed(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	stdout, _, code := runCommandWithInput(t, &commands.RmCmd{}, svc, []string{"1"}, false, "yes\n")

	checkResult(t, code, exitcode.Success, stdout, "no tasks found\n", "stdout")
	if svc.CallCount("DeleteTask") != 1 {
		t.Errorf("expected one DeleteTask call, got %+v", svc.Calls())
	}
}

func TestRmCommand_NoID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, testutil.NewFakeService(), nil, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task id required\n", "stderr")
}

func TestRmCommand_NotFound(t *testing.T) {
	cmd := &commands.RmCmd{}
	parseFlags(t, cmd, "-y")
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"3"}, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task not found: 3\n", "stderr")
}

// Tests for html command
func TestHTMLCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("<b>milk</b>", service.StatusOngoing)
	svc.AddTask("Walk dog", service.StatusCompleted)

	cmd := &commands.HTMLCmd{}
	parseFlags(t, cmd, "--filter", "ongoing", "--edit", "1")
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	for _, want := range []string{
		`<ul id="taskList">`,
		`<button class="filter-btn active" data-filter="ongoing">ongoing</button>`,
		`id="edit-1" value="&lt;b&gt;milk&lt;/b&gt;"`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Walk dog") {
		t.Error("completed task should be filtered out")
	}
	if strings.Contains(stdout, "<b>") {
		t.Error("title must be escaped")
	}
}

func TestHTMLCommand_InvalidEditID(t *testing.T) {
	cmd := &commands.HTMLCmd{}
	parseFlags(t, cmd, "--edit", "-2")
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: invalid task id: -2\n", "stderr")
}

func TestHTMLCommand_EditUnknownID(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusOngoing)

	cmd := &commands.HTMLCmd{}
	parseFlags(t, cmd, "--edit", "9")
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task not found: 9\n", "stderr")
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestHTMLCommand_EditHiddenByFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", service.StatusCompleted)

	cmd := &commands.HTMLCmd{}
	parseFlags(t, cmd, "--filter", "ongoing", "--edit", "1")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	checkResult(t, code, exitcode.UserError, stderr, "error: task 1 is hidden by filter ongoing\n", "stderr")
}

func TestRegistry_AliasesResolve(t *testing.T) {
	for alias, name := range map[string]string{
		"ls":     "list",
		"create": "add",
		"toggle": "done",
		"rename": "edit",
		"delete": "rm",
		"tui":    "ui",
	} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("alias %q not registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("alias %q resolves to %q, want %q", alias, cmd.Name(), name)
		}
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}
