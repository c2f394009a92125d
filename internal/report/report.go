package report

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TableReport holds the counts of one table comparison. It is owned by a single
// comparison until handed to a RunReport.
type TableReport struct {
	SourceTable string        `json:"source_table" yaml:"source_table"`
	TargetTable string        `json:"target_table" yaml:"target_table"`
	Matched     int64         `json:"matched" yaml:"matched"`
	Changed     int64         `json:"changed" yaml:"changed"`
	Missing     int64         `json:"missing" yaml:"missing"` // source only
	Extra       int64         `json:"extra" yaml:"extra"`     // target only
	SourceRows  int64         `json:"source_rows" yaml:"source_rows"`
	TargetRows  int64         `json:"target_rows" yaml:"target_rows"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

func NewTableReport(sourceTable, targetTable string) *TableReport {
	return &TableReport{SourceTable: sourceTable, TargetTable: targetTable}
}

// Differences is the number of rows needing a statement to bring the target in line.
func (t *TableReport) Differences() int64 {
	return t.Changed + t.Missing + t.Extra
}

// RunReport collects table reports in the order they are added.
type RunReport struct {
	mu sync.Mutex

	RunID      string         `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Tables     []*TableReport `json:"tables" yaml:"tables"`
}

func NewRunReport() *RunReport {
	return &RunReport{RunID: uuid.NewString(), StartedAt: time.Now()}
}

// AddTableReport appends a finished table report. Safe for concurrent use.
func (r *RunReport) AddTableReport(t *TableReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tables = append(r.Tables, t)
}

// Finish stamps the end of the run.
func (r *RunReport) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now()
}

// Totals sums the counts of every table.
func (r *RunReport) Totals() TableReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := TableReport{SourceTable: "TOTAL", TargetTable: "TOTAL"}
	for _, t := range r.Tables {
		total.Matched += t.Matched
		total.Changed += t.Changed
		total.Missing += t.Missing
		total.Extra += t.Extra
		total.SourceRows += t.SourceRows
		total.TargetRows += t.TargetRows
		total.Duration += t.Duration
	}
	return total
}

// InSync reports whether no table had a difference.
func (r *RunReport) InSync() bool {
	total := r.Totals()
	return total.Differences() == 0
}
