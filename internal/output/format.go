// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"tasklist/internal/service"
)

const (
	// SectionSeparator frames a filter section header.
	SectionSeparator = "------------"
)

// Row is one visible task as every renderer draws it.
type Row struct {
	ID     int
	Title  string
	Status service.Status

	// ToggleLabel names the toggle control for the row's status.
	ToggleLabel string
}

// Rows returns the rows visible under filter in server order.
func Rows(tasks []service.Task, filter service.Filter) []Row {
	visible := filter.Apply(tasks)
	rows := make([]Row, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, Row{
			ID:          t.ID,
			Title:       t.Title,
			Status:      t.Status,
			ToggleLabel: toggleLabel(t.Status),
		})
	}
	return rows
}

func toggleLabel(status service.Status) string {
	if status == service.StatusCompleted {
		return "Mark Undone"
	}
	return "Mark Done"
}

// FormatTask formats a task line.
// Format: "{ID:>4}  {[STATUS]:<11} {TITLE}\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %-11s %s\n", task.ID, Badge(task.Status), SanitizeTitle(task.Title))
}

// FormatTasks writes every task visible under the filter. A section header is
// printed for any filter other than "all".
func FormatTasks(w io.Writer, tasks []service.Task, filter service.Filter) {
	if filter != service.FilterAll && filter != "" {
		FormatFilterHeader(w, filter)
	}
	for _, task := range filter.Apply(tasks) {
		FormatTask(w, task)
	}
}

// FormatFilterHeader formats a filter section header.
func FormatFilterHeader(w io.Writer, filter service.Filter) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, string(filter))
	fmt.Fprintln(w, SectionSeparator)
}

// Badge renders a status as a bracketed label.
func Badge(status service.Status) string {
	if strings.TrimSpace(string(status)) == "" {
		return "[unknown]"
	}
	return "[" + SanitizeTitle(string(status)) + "]"
}

// SanitizeTitle makes a title safe to print on a terminal:
//   - newlines are replaced with spaces
//   - other control characters (including ESC) are shown as \xNN
//   - empty or whitespace-only titles become "(untitled)"
func SanitizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}

	var b strings.Builder
	for _, r := range title {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
			fmt.Fprintf(&b, "\\x%02x", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
