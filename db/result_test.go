package db

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nickyhof/GridDB/core"
)

func TestQueryResultRender(t *testing.T) {
	result := QueryResult{
		Columns:     []string{"Id", "Name"},
		Rows:        []core.Object{{"Id": 1, "Name": "Ada"}, {"Id": 2, "Name": "Bob"}},
		RecordsRead: 2,
	}

	var buf bytes.Buffer
	result.Render(&buf)

	expected := strings.Join([]string{
		"+----+------+",
		"| Id | Name |",
		"+----+------+",
		"| 1  | Ada  |",
		"| 2  | Bob  |",
		"+----+------+",
		"2 rows (<1ms)",
		"",
	}, "\n")
	if buf.String() != expected {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestCommitResultRender(t *testing.T) {
	var buf bytes.Buffer
	CommitResult{RecordsWritten: 1, Inserted: core.Object{"Id": 4}, ExecutionTimeSec: 0.25}.Render(&buf)
	if buf.String() != "1 record(s) written, Id 4 (250ms)\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	}

	buf.Reset()
	CommitResult{}.Render(&buf)
	if buf.String() != "OK (<1ms)\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0.0005: "<1ms",
		0.005:  "5.0ms",
		0.25:   "250ms",
		2.5:    "2.5s",
		42:     "42s",
		120:    "2m",
		125:    "2m5s",
	}
	for secs, expected := range cases {
		if got := formatDuration(secs); got != expected {
			t.Errorf("formatDuration(%v) = %s, want %s", secs, got, expected)
		}
	}
}
