package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadWorkbookTable(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"Codigo", "Descripcion", "Precio"},
		{"A1", "Leche Gloria Entera 400g", "3.50"},
	})

	rows, err := LoadWorkbookTable(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: %+v", rows)
	}
	if rows[1][1] != "Leche Gloria Entera 400g" {
		t.Fatalf("cell: %q", rows[1][1])
	}
}

func TestProjectPriceRecords(t *testing.T) {
	table := [][]string{
		{"Codigo", "Descripcion", "Precio"},
		{"A1", "Leche Gloria Entera 400g", "S/ 3,50"},
		{"A2", "Arroz Costeño 5kg", "sin precio"},
	}

	recs, err := ProjectPriceRecords(table, PriceColumns{Code: 1, Description: 2, Price: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("records: %+v", recs)
	}
	if recs[0].Code != "A1" || recs[0].Price != 3.50 {
		t.Fatalf("first record: %+v", recs[0])
	}
	if recs[1].Price != 0 {
		t.Fatalf("unparsable price should read 0: %+v", recs[1])
	}
}

func TestProjectMasterRecords(t *testing.T) {
	table := [][]string{
		{"Producto", "Unidad", "Costo"},
		{"Leche Gloria Entera 400gr", "UNIDAD", "3.10"},
	}

	recs, err := ProjectMasterRecords(table, MasterColumns{Product: 1, Unit: 2, Cost: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("records: %+v", recs)
	}
	if recs[0].Product != "Leche Gloria Entera 400gr" || recs[0].Unit != "UNIDAD" || recs[0].Cost != 3.10 {
		t.Fatalf("record: %+v", recs[0])
	}
}

func TestProjectRejectsUnselectedColumns(t *testing.T) {
	table := [][]string{{"a"}, {"b"}}
	if _, err := ProjectPriceRecords(table, PriceColumns{Code: 1, Description: 0, Price: 3}); err == nil {
		t.Fatal("expected error for unselected price column")
	}
	if _, err := ProjectMasterRecords(table, MasterColumns{Product: 1, Unit: 2, Cost: 0}); err == nil {
		t.Fatal("expected error for unselected master column")
	}
}

func TestProjectRejectsHeaderOnlyTable(t *testing.T) {
	table := [][]string{{"Codigo", "Descripcion", "Precio"}}
	if _, err := ProjectPriceRecords(table, PriceColumns{Code: 1, Description: 2, Price: 3}); err == nil {
		t.Fatal("expected error for table without data rows")
	}
}

func TestProjectToleratesShortRows(t *testing.T) {
	table := [][]string{
		{"Codigo", "Descripcion", "Precio"},
		{"A1"},
	}
	recs, err := ProjectPriceRecords(table, PriceColumns{Code: 1, Description: 2, Price: 3})
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Description != "" || recs[0].Price != 0 {
		t.Fatalf("short row: %+v", recs[0])
	}
}

func TestParseHTMLTable(t *testing.T) {
	html := `<html><body>
	<p>Estimados,</p>
	<table>
	  <tr><th>Codigo</th><th>Descripcion</th><th>Precio</th></tr>
	  <tr><td>A1</td><td> Leche Gloria Entera 400g </td><td>3.50</td></tr>
	</table>
	</body></html>`

	rows, err := ParseHTMLTable(html)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: %+v", rows)
	}
	if rows[1][1] != "Leche Gloria Entera 400g" {
		t.Fatalf("cell not trimmed: %q", rows[1][1])
	}
}

func TestParseHTMLTableRejectsTableless(t *testing.T) {
	if _, err := ParseHTMLTable("<html><body><p>hola</p></body></html>"); err == nil {
		t.Fatal("expected error for html without a table")
	}
}
