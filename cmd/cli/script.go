package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nickyhof/GridDB/db"
)

// runFile executes a file of commands, one per line. Blank lines and lines
// starting with # are skipped. A failing line is reported and the run goes on.
func (cli *CLI) runFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	var ok, failed int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "."):
			cli.handleCommand(line)
			continue
		}

		label := fmt.Sprintf("[%d] %s", n, truncate(line, 50))
		result, err := cli.do(line)
		if err != nil {
			failed++
			fmt.Fprintln(cli.out, paint(red, "✗ "+label))
			fmt.Fprintf(cli.out, "      Error: %v\n", err)
			continue
		}
		ok++
		fmt.Fprintln(cli.out, paint(green, "✓ "+label+summarize(result)))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	fmt.Fprintln(cli.out)
	cli.okf("Run complete: %d succeeded, %d failed", ok, failed)
	return nil
}

// summarize renders a compact " (...)" suffix for a result.
func summarize(result db.Result) string {
	var s string
	switch r := result.(type) {
	case db.CommitResult:
		s = r.Summary()
	case db.QueryResult:
		s = fmt.Sprintf("%d rows", r.RecordsRead)
	}
	if s == "" {
		return ""
	}
	return " (" + s + ")"
}

// truncate flattens tabs and cuts s to limit bytes, ending in "...".
func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
