package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tableLines lays out a header row plus data rows as space-separated
// columns sized to the widest cell. Padding goes through runewidth so wide
// glyphs keep the columns aligned.
func tableLines(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}

	all := make([][]string, 0, len(rows)+1)
	if len(headers) > 0 {
		all = append(all, headers)
	}
	all = append(all, rows...)

	widths := make([]int, cols)
	for _, row := range all {
		for i := 0; i < cols && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(all))
	for _, row := range all {
		cells := make([]string, cols)
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if rightAlign[i] {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}
