package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Render writes the report as a console table, JSON or YAML.
func (r *RunReport) Render(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return r.renderTable(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.view())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r.view())
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

type tableView struct {
	SourceTable string `json:"source_table" yaml:"source_table"`
	TargetTable string `json:"target_table" yaml:"target_table"`
	Matched     int64  `json:"matched" yaml:"matched"`
	Changed     int64  `json:"changed" yaml:"changed"`
	Missing     int64  `json:"missing" yaml:"missing"`
	Extra       int64  `json:"extra" yaml:"extra"`
	SourceRows  int64  `json:"source_rows" yaml:"source_rows"`
	TargetRows  int64  `json:"target_rows" yaml:"target_rows"`
	Duration    string `json:"duration" yaml:"duration"`
}

type runView struct {
	RunID      string      `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time   `json:"finished_at" yaml:"finished_at"`
	Tables     []tableView `json:"tables" yaml:"tables"`
	Totals     tableView   `json:"totals" yaml:"totals"`
}

func toView(t TableReport) tableView {
	return tableView{
		SourceTable: t.SourceTable,
		TargetTable: t.TargetTable,
		Matched:     t.Matched,
		Changed:     t.Changed,
		Missing:     t.Missing,
		Extra:       t.Extra,
		SourceRows:  t.SourceRows,
		TargetRows:  t.TargetRows,
		Duration:    t.Duration.Round(time.Millisecond).String(),
	}
}

func (r *RunReport) view() runView {
	totals := r.Totals()

	r.mu.Lock()
	defer r.mu.Unlock()
	v := runView{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Tables:     make([]tableView, 0, len(r.Tables)),
		Totals:     toView(totals),
	}
	for _, t := range r.Tables {
		v.Tables = append(v.Tables, toView(*t))
	}
	return v
}

func (r *RunReport) renderTable(w io.Writer) error {
	v := r.view()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Source", "Target", "Source Rows", "Target Rows", "Matched", "Changed", "Missing", "Extra", "Elapsed"})
	table.SetAutoFormatHeaders(false)
	for _, t := range v.Tables {
		table.Append(row(t))
	}
	table.SetFooter(row(v.Totals))
	table.Render()
	return nil
}

func row(t tableView) []string {
	return []string{
		t.SourceTable,
		t.TargetTable,
		strconv.FormatInt(t.SourceRows, 10),
		strconv.FormatInt(t.TargetRows, 10),
		strconv.FormatInt(t.Matched, 10),
		strconv.FormatInt(t.Changed, 10),
		strconv.FormatInt(t.Missing, 10),
		strconv.FormatInt(t.Extra, 10),
		t.Duration,
	}
}
