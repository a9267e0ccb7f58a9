package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/service"
)

func renderTasks(w io.Writer, tasks []*domain.Task) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Due", "Priority", "Source", "Block"})
	for _, t := range tasks {
		name := t.Name
		if t.IsDeleted {
			name += " (deleted)"
		}
		tw.AppendRow(table.Row{t.ID, name, t.DueDate.Format(domain.DateLayout), t.Priority, t.Source, formatBlock(t.Assignment)})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d tasks", len(tasks))})
	tw.Style().Format.Footer = text.FormatDefault
	tw.Render()
}

func renderUsers(w io.Writer, users []*domain.User) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Username", "Canvas ID", "Created"})
	for _, u := range users {
		tw.AppendRow(table.Row{u.ID, u.Username, u.CanvasHashID, u.CreatedAt.Format(time.DateOnly)})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d users", len(users))})
	tw.Style().Format.Footer = text.FormatDefault
	tw.Render()
}

func formatBlock(a *domain.Assignment) string {
	if a == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s (%dh)", a.Date.Format(domain.DateLayout), a.StartTime.HHMM(), int(a.Duration/time.Hour))
}

func renderImportSummary(w io.Writer, s service.ImportSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Courses", "Failed", "Created", "Skipped", "Duplicates", "Invalid", "Expired"})
	tw.AppendRow(table.Row{s.Courses, s.FailedCourses, s.Created, s.Skipped, s.Duplicates, s.Invalid, s.Expired})
	tw.Render()
}

func printMessages(w io.Writer, messages []string) {
	for _, m := range messages {
		fmt.Fprintln(w, m)
	}
}
