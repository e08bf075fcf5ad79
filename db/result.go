package db

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/ps"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	CommitResultType
)

type Result interface {
	Type() ResultType
	Render(w io.Writer)
	Display()
}

type QueryResult struct {
	Transaction      ps.Transaction `json:"-"`
	Table            string         `json:"table,omitempty"`
	Columns          []string       `json:"columns"`
	Rows             []core.Object  `json:"rows"`
	RecordsRead      int            `json:"recordsRead"`
	ExecutionTimeSec float64        `json:"executionTimeSec"`
}

type CommitResult struct {
	Transaction      ps.Transaction `json:"-"`
	Table            string         `json:"table,omitempty"`
	TablesCreated    int            `json:"tablesCreated,omitempty"`
	TablesDeleted    int            `json:"tablesDeleted,omitempty"`
	RecordsWritten   int            `json:"recordsWritten,omitempty"`
	RecordsDeleted   int            `json:"recordsDeleted,omitempty"`
	Inserted         core.Object    `json:"inserted,omitempty"`
	ExecutionTimeSec float64        `json:"executionTimeSec"`
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result CommitResult) Type() ResultType {
	return CommitResultType
}

func formatDuration(secs float64) string {
	switch {
	case secs < 0.001:
		return "<1ms"
	case secs < 0.01:
		return fmt.Sprintf("%.1fms", secs*1000)
	case secs < 1:
		return fmt.Sprintf("%dms", int(secs*1000))
	case secs < 10:
		return fmt.Sprintf("%.1fs", secs)
	case secs < 60:
		return fmt.Sprintf("%ds", int(secs))
	}

	mins := int(secs / 60)
	if rest := int(secs) % 60; rest != 0 {
		return fmt.Sprintf("%dm%ds", mins, rest)
	}
	return fmt.Sprintf("%dm", mins)
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result CommitResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// Data returns the rows as text cells ordered by Columns.
func (result QueryResult) Data() [][]string {
	data := make([][]string, len(result.Rows))
	for i, obj := range result.Rows {
		row := make([]string, len(result.Columns))
		for j, col := range result.Columns {
			row[j] = core.FormatCell(obj[col])
		}
		data[i] = row
	}
	return data
}

func (result QueryResult) Render(w io.Writer) {
	if len(result.Rows) > 0 {
		renderBox(w, result.Columns, result.Data())
	}
	fmt.Fprintf(w, "%d rows (%s)\n", result.RecordsRead, result.ExecutionTime())
}

func (result QueryResult) Display() {
	result.Render(os.Stdout)
}

// Summary lists the non-zero counters and the inserted Id, or "" when there
// are none.
func (result CommitResult) Summary() string {
	counters := []struct {
		n     int
		label string
	}{
		{result.TablesCreated, "table(s) created"},
		{result.TablesDeleted, "table(s) deleted"},
		{result.RecordsWritten, "record(s) written"},
		{result.RecordsDeleted, "record(s) deleted"},
	}

	var parts []string
	for _, c := range counters {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.label))
		}
	}
	if id, ok := result.Inserted[core.IdColumn]; ok {
		parts = append(parts, "Id "+core.FormatCell(id))
	}
	return strings.Join(parts, ", ")
}

func (result CommitResult) Render(w io.Writer) {
	summary := result.Summary()
	if summary == "" {
		summary = "OK"
	}
	fmt.Fprintf(w, "%s (%s)\n", summary, result.ExecutionTime())
}

func (result CommitResult) Display() {
	result.Render(os.Stdout)
}
