package commands

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"web-scraper-go/internal/models"
)

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func renderJobs(w io.Writer, jobs []models.JobDefinition) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "URL", "Selector"})
	for _, job := range jobs {
		t.AppendRow(table.Row{job.Name, job.URL, job.Selector})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
