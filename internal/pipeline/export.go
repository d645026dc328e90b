package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/util"
)

var exportPalette = []string{"C6EFCE", "FFF2CC", "FFCCE5", "CCE5FF", "E2EFDA", "F4CCCC", "D9E1F2", "EAD1DC"}

const (
	masterSheetTitle = "LISTAR-PRODUCTO - Sistema Comercial"
	priceSheetTitle  = "LISTAR-PRECIOS - Sistema Comercial"
)

type ExportPaths struct {
	Master string
	Price  string
}

// ExportWorkbooks writes the refreshed master workbook and the recolored
// price workbook. Rows belonging to the same confirmed pair share a fill
// color in both files, and confirmed master rows carry the replacement cost.
func ExportWorkbooks(result internal.RunResult, masterTable, priceTable [][]string, masterCols MasterColumns, priceCols PriceColumns, masterName, priceName, outDir string) (ExportPaths, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return ExportPaths{}, err
	}

	ts := time.Now().Format("20060102_150405")
	colors := buildColorMap(result.GroupKeys)

	paths := ExportPaths{
		Master: filepath.Join(outDir, fmt.Sprintf("%s_%s.xlsx", masterName, ts)),
		Price:  filepath.Join(outDir, fmt.Sprintf("%s_%s.xlsx", priceName, ts)),
	}

	if err := writeMasterWorkbook(paths.Master, result, masterTable, masterCols, colors); err != nil {
		return ExportPaths{}, err
	}
	if err := writePriceWorkbook(paths.Price, priceTable, priceCols, colors); err != nil {
		return ExportPaths{}, err
	}
	return paths, nil
}

// buildColorMap assigns one palette color per confirmed pair, keyed by both
// normalized descriptions so each side of the pair resolves to the same fill.
func buildColorMap(groupKeys [][2]string) map[string]string {
	colors := map[string]string{}
	next := 0
	for _, pair := range groupKeys {
		_, hasA := colors[pair[0]]
		_, hasB := colors[pair[1]]
		if hasA || hasB {
			continue
		}
		color := exportPalette[next%len(exportPalette)]
		colors[pair[0]] = color
		colors[pair[1]] = color
		next++
	}
	return colors
}

func writeMasterWorkbook(path string, result internal.RunResult, table [][]string, cols MasterColumns, colors map[string]string) error {
	if len(table) == 0 {
		return fmt.Errorf("master table is empty")
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "Maestro")
	sheet = "Maestro"

	if err := writeTitle(f, sheet, masterSheetTitle, len(table[0])); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, table[0]); err != nil {
		return err
	}

	fills := map[string]int{}
	for i, row := range table[1:] {
		r := i + 3
		product := cellAt(row, cols.Product)
		for c, val := range row {
			value := numericOrText(val)
			if c == cols.Cost-1 {
				if replacement, ok := result.CostByProduct[product]; ok {
					value = replacement
				}
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		applyFill(f, sheet, r, len(row), colors[util.Normalize(product)], fills)
	}

	return f.SaveAs(path)
}

func writePriceWorkbook(path string, table [][]string, cols PriceColumns, colors map[string]string) error {
	if len(table) == 0 {
		return fmt.Errorf("price table is empty")
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "Precios")
	sheet = "Precios"

	if err := writeTitle(f, sheet, priceSheetTitle, len(table[0])); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, table[0]); err != nil {
		return err
	}

	fills := map[string]int{}
	for i, row := range table[1:] {
		r := i + 3
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			_ = f.SetCellValue(sheet, cell, numericOrText(val))
		}
		applyFill(f, sheet, r, len(row), colors[util.Normalize(cellAt(row, cols.Description))], fills)
	}

	return f.SaveAs(path)
}

func writeTitle(f *excelize.File, sheet, title string, width int) error {
	if width < 1 {
		width = 1
	}
	last, _ := excelize.CoordinatesToCellName(width, 1)
	if err := f.MergeCell(sheet, "A1", last); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	for c, val := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 2)
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 2)
	return f.SetCellStyle(sheet, "A2", last, bold)
}

func applyFill(f *excelize.File, sheet string, row, width int, color string, fills map[string]int) {
	if color == "" || width < 1 {
		return
	}
	style, ok := fills[color]
	if !ok {
		var err error
		style, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return
		}
		fills[color] = style
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(width, row)
	_ = f.SetCellStyle(sheet, first, last, style)
}

// WriteTable dumps a raw table to a workbook, used when an imported price
// list should be saved for a later run.
func WriteTable(path string, table [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range table {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}
	return f.SaveAs(path)
}

func numericOrText(val string) any {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return ""
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil {
		return val
	}
	return parsed
}
