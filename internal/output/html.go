package output

import (
	"html/template"
	"io"

	"tasklist/internal/service"
)

// HTMLOptions controls the HTML rendering.
type HTMLOptions struct {
	// Filter selects the visible tasks and the active filter button.
	Filter service.Filter

	// EditingID renders that row as an inline edit form. Zero means none.
	EditingID int
}

type htmlFilter struct {
	Name   service.Filter
	Active bool
}

type htmlRow struct {
	Row
	Editing bool
}

type htmlPage struct {
	Filters []htmlFilter
	Rows    []htmlRow
}

// Row controls carry data-action/data-id attributes; listeners are attached by
// the embedding page, never through inline handler code.
var taskListTemplate = template.Must(template.New("tasklist").Parse(`<div class="filters">
{{- range .Filters}}
  <button class="filter-btn{{if .Active}} active{{end}}" data-filter="{{.Name}}">{{.Name}}</button>
{{- end}}
</div>
<ul id="taskList">
{{- range .Rows}}
  <li class="task-item status-{{.Status}}" data-id="{{.ID}}">
    <div class="task-content">
{{- if .Editing}}
      <input type="text" class="edit-input" id="edit-{{.ID}}" value="{{.Title}}">
      <div class="edit-actions">
        <button class="save-btn" data-action="save" data-id="{{.ID}}">Save</button>
        <button class="cancel-btn" data-action="cancel" data-id="{{.ID}}">Cancel</button>
      </div>
{{- else}}
      <span class="task-title">{{.Title}}</span>
      <span class="status-badge">{{.Status}}</span>
{{- end}}
    </div>
    <div class="task-actions">
      <button class="action-btn edit-btn" data-action="edit" data-id="{{.ID}}" title="Edit" aria-label="Edit">Edit</button>
      <button class="action-btn toggle-btn" data-action="toggle" data-id="{{.ID}}" data-status="{{.Status}}" title="{{.ToggleLabel}}" aria-label="Toggle Status">{{.ToggleLabel}}</button>
      <button class="action-btn delete-btn" data-action="delete" data-id="{{.ID}}" title="Delete" aria-label="Delete">Delete</button>
    </div>
  </li>
{{- end}}
</ul>
`))

// RenderHTML writes the filter bar and the task list markup for the tasks
// visible under opts.Filter. Exactly one filter button is marked active.
func RenderHTML(w io.Writer, tasks []service.Task, opts HTMLOptions) error {
	filter := opts.Filter
	if filter == "" {
		filter = service.FilterAll
	}

	page := htmlPage{}
	for _, f := range service.Filters {
		page.Filters = append(page.Filters, htmlFilter{Name: f, Active: f == filter})
	}
	for _, row := range Rows(tasks, filter) {
		page.Rows = append(page.Rows, htmlRow{
			Row:     row,
			Editing: opts.EditingID != 0 && opts.EditingID == row.ID,
		})
	}
	return taskListTemplate.Execute(w, page)
}
