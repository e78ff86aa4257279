// Package tui is the interactive terminal task list.
//
// The model never touches task data directly: every key that changes a task
// runs a controller call in a command, and the screen is always drawn from the
// controller's last snapshot and active filter. Network failures are logged by
// the controller and leave the screen on the last good state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/controller"
	"tasklist/internal/output"
	"tasklist/internal/service"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// fetchedMsg reports the end of a refetch.
type fetchedMsg struct{ err error }

// mutatedMsg reports the end of a mutation (and its refetch).
type mutatedMsg struct {
	op  string
	id  int
	err error
}

// Model is the Bubble Tea model for the task list screen.
type Model struct {
	ctx  context.Context
	ctrl *controller.Controller

	// copyText writes to the system clipboard.
	copyText func(string) error

	mode    mode
	cursor  int
	input   textinput.Model
	edit    textinput.Model
	editID  int
	pending *service.Task
	status  string
	width   int
}

// New creates the model. The first fetch is issued by Init.
func New(ctx context.Context, ctrl *controller.Controller) Model {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.Prompt = "New task: "
	input.CharLimit = 256
	input.Width = 50

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 256
	edit.Width = 50

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		copyText: clipboard.WriteAll,
		input:    input,
		edit:     edit,
	}
}

// Run starts the program on the given streams and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, ctrl *controller.Controller, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
			m.edit.Width = msg.Width - 20
		}
		return m, nil
	case fetchedMsg:
		m.clampCursor()
		return m, nil
	case mutatedMsg:
		return m.handleMutated(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg.String())
		}
		return m.updateListMode(msg.String())
	}
	return m, nil
}

func (m Model) handleMutated(msg mutatedMsg) Model {
	m.clampCursor()
	if !controller.Applied(msg.err) {
		return m
	}
	switch msg.op {
	case "add":
		m.input.Reset()
	case "edit":
		if m.mode == modeEdit && m.editID == msg.id {
			m.leaveEdit()
		}
	}
	return m
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	m.status = ""
	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "1", "2", "3":
		m.setFilter(service.Filters[int(key[0]-'1')])
	case "tab":
		m.setFilter(m.ctrl.Filter().Next())
	case "r":
		return m, m.fetch()
	case "a":
		m.mode = modeAdd
		return m, m.input.Focus()
	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = task.ID
		m.edit.SetValue(task.Title)
		m.edit.CursorEnd()
		return m, m.edit.Focus()
	case "t", " ", "space":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.toggle(task)
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending = &task
		m.mode = modeConfirmDelete
	case "y":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.copyText(task.Title); err == nil {
			m.status = "copied title to clipboard"
		}
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case "enter":
		title := m.input.Value()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		return m, m.add(title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Discard the edit; the row is drawn again from the held snapshot.
		m.leaveEdit()
		return m, nil
	case "enter":
		title := m.edit.Value()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		return m, m.saveEdit(m.editID, title)
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		task := *m.pending
		m.pending = nil
		m.mode = modeList
		return m, m.delete(task.ID)
	case "n", "N", "esc":
		m.pending = nil
		m.mode = modeList
	}
	return m, nil
}

func (m *Model) leaveEdit() {
	m.mode = modeList
	m.editID = 0
	m.edit.Blur()
	m.edit.Reset()
}

func (m *Model) setFilter(f service.Filter) {
	m.ctrl.SetFilter(f)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (service.Task, bool) {
	visible := m.ctrl.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

func (m Model) fetch() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return fetchedMsg{err: ctrl.Fetch(ctx)}
	}
}

func (m Model) add(title string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return mutatedMsg{op: "add", err: ctrl.Add(ctx, title)}
	}
}

func (m Model) toggle(task service.Task) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return mutatedMsg{op: "toggle", id: task.ID, err: ctrl.Toggle(ctx, task.ID, task.Status)}
	}
}

func (m Model) saveEdit(id int, title string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return mutatedMsg{op: "edit", id: id, err: ctrl.SaveEdit(ctx, id, title)}
	}
}

// delete runs after the user already answered the y/n prompt.
func (m Model) delete(id int) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Delete(ctx, id, controller.AlwaysConfirm)
		return mutatedMsg{op: "delete", id: id, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(m.filterBar())
	b.WriteString("\n\n")

	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, task := range visible {
		b.WriteString(m.row(i, task))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter add • esc done"))
	case modeEdit:
		b.WriteString(dimStyle.Render("enter save • esc cancel"))
	case modeConfirmDelete:
		fmt.Fprintf(&b, "%s %q (y/n)", controller.DeletePrompt, output.SanitizeTitle(m.pending.Title))
	default:
		if m.status != "" {
			b.WriteString(m.status)
			b.WriteString("\n")
		}
		b.WriteString(dimStyle.Render("a add • e edit • t toggle • d delete • y copy • 1/2/3 filter • r refresh • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) filterBar() string {
	active := m.ctrl.Filter()
	parts := make([]string, 0, len(service.Filters))
	for i, f := range service.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == active {
			parts = append(parts, activeFilterStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, filterStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) row(i int, task service.Task) string {
	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("> ")
	}
	id := fmt.Sprintf("#%-4d", task.ID)

	if m.mode == modeEdit && task.ID == m.editID {
		return marker + id + m.edit.View()
	}
	return marker + id + output.SanitizeTitle(task.Title) + "  " + badge(task.Status)
}
