package db

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// renderBox writes header and rows framed in ASCII rules. Short rows are
// padded with empty cells.
func renderBox(w io.Writer, header []string, rows [][]string) {
	all := append([][]string{header}, rows...)

	var widths []int
	for _, cells := range all {
		for i, cell := range cells {
			if i == len(widths) {
				widths = append(widths, 1)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	if len(widths) == 0 {
		return
	}

	var rule strings.Builder
	for _, width := range widths {
		rule.WriteString("+" + strings.Repeat("-", width+2))
	}
	rule.WriteString("+\n")

	io.WriteString(w, rule.String())
	for i, cells := range all {
		if i == 0 && len(header) == 0 {
			continue
		}
		for j, width := range widths {
			var cell string
			if j < len(cells) {
				cell = cells[j]
			}
			fmt.Fprintf(w, "| %-*s ", width, cell)
		}
		io.WriteString(w, "|\n")
		if i == 0 {
			io.WriteString(w, rule.String())
		}
	}
	io.WriteString(w, rule.String())
}
