package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// CurrencyCleaner removes decorative currency-symbol columns from tabular
// input before records are projected. Spreadsheet exports frequently carry a
// column that holds nothing but "S/" next to the real price column; the
// cleaner detects it by content ratio instead of hard-coding a position.
type CurrencyCleaner struct {
	stripRe *regexp.Regexp
	exactRe *regexp.Regexp
	cutoff  float64
}

func NewCurrencyCleaner(markers []string, cutoff float64) *CurrencyCleaner {
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		quoted = append(quoted, regexp.QuoteMeta(m))
	}
	// Longest marker first so "US$" wins over "$".
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	alt := strings.Join(quoted, "|")

	return &CurrencyCleaner{
		stripRe: regexp.MustCompile(`(?i)^\s*(` + alt + `)\s*`),
		exactRe: regexp.MustCompile(`(?i)^\s*(` + alt + `)\s*$`),
		cutoff:  cutoff,
	}
}

func (c *CurrencyCleaner) Clean(table [][]string) [][]string {
	if len(table) == 0 {
		return table
	}

	cleaned := make([][]string, len(table))
	for r, row := range table {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = strings.TrimSpace(c.stripRe.ReplaceAllString(cell, ""))
		}
		cleaned[r] = out
	}

	dataRows := len(cleaned) - 1
	if dataRows <= 0 {
		return cleaned
	}

	numCols := len(cleaned[0])
	remove := map[int]struct{}{}
	for col := 0; col < numCols; col++ {
		symbols, empties := 0, 0
		for r := 1; r < len(cleaned); r++ {
			val := ""
			if col < len(cleaned[r]) {
				val = strings.TrimSpace(cleaned[r][col])
			}
			if val == "" {
				empties++
				continue
			}
			if c.exactRe.MatchString(val) {
				symbols++
			}
		}
		if float64(symbols)/float64(dataRows)+float64(empties)/float64(dataRows) > c.cutoff {
			remove[col] = struct{}{}
		}
	}

	if len(remove) == 0 {
		return cleaned
	}

	result := make([][]string, len(cleaned))
	for r, row := range cleaned {
		kept := make([]string, 0, len(row))
		for i, cell := range row {
			if _, skip := remove[i]; skip {
				continue
			}
			kept = append(kept, cell)
		}
		result[r] = kept
	}
	return result
}
