package util

import (
	"regexp"
	"strconv"
	"strings"
)

var reDecimal = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParsePrice extracts the longest decimal-looking substring of a cell, with
// comma accepted as decimal separator. Unparsable cells yield 0 instead of
// failing the run.
func ParsePrice(cell string) float64 {
	best := ""
	for _, m := range reDecimal.FindAllString(cell, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	if best == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(best, ",", "."), 64)
	if err != nil {
		return 0
	}
	return parsed
}
