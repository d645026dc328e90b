package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/util"
)

// Column selections are 1-based, matching what a reviewer reads off the
// workbook preview. Zero means not selected.
type PriceColumns struct {
	Code        int
	Description int
	Price       int
}

type MasterColumns struct {
	Product int
	Unit    int
	Cost    int
}

func (c PriceColumns) validate() error {
	if c.Code < 1 || c.Description < 1 || c.Price < 1 {
		return fmt.Errorf("price columns not selected: code=%d description=%d price=%d", c.Code, c.Description, c.Price)
	}
	return nil
}

func (c MasterColumns) validate() error {
	if c.Product < 1 || c.Unit < 1 || c.Cost < 1 {
		return fmt.Errorf("master columns not selected: product=%d unit=%d cost=%d", c.Product, c.Unit, c.Cost)
	}
	return nil
}

func LoadWorkbookTable(blob []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseHTMLTable reads the first <table> of an HTML document into rows, for
// suppliers that send the price list inline instead of as an attachment.
func ParseHTMLTable(html string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in html input")
	}

	out := [][]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := []string{}
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			out = append(out, row)
		}
	})
	return out, nil
}

// ProjectPriceRecords turns a cleaned table (header row first) into typed
// price records. Unparsable price cells default to 0; the run never fails on
// a bad row.
func ProjectPriceRecords(table [][]string, cols PriceColumns) ([]internal.PriceRecord, error) {
	if err := cols.validate(); err != nil {
		return nil, err
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("price table has no data rows")
	}

	out := make([]internal.PriceRecord, 0, len(table)-1)
	for _, row := range table[1:] {
		out = append(out, internal.PriceRecord{
			Code:        cellAt(row, cols.Code),
			Description: cellAt(row, cols.Description),
			Price:       util.ParsePrice(cellAt(row, cols.Price)),
			Row:         row,
		})
	}
	return out, nil
}

func ProjectMasterRecords(table [][]string, cols MasterColumns) ([]internal.MasterRecord, error) {
	if err := cols.validate(); err != nil {
		return nil, err
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("master table has no data rows")
	}

	out := make([]internal.MasterRecord, 0, len(table)-1)
	for _, row := range table[1:] {
		out = append(out, internal.MasterRecord{
			Product: cellAt(row, cols.Product),
			Unit:    cellAt(row, cols.Unit),
			Cost:    util.ParsePrice(cellAt(row, cols.Cost)),
			Row:     row,
		})
	}
	return out, nil
}

func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}
