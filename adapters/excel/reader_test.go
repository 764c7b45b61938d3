package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"tablekit/domain/table"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp CSV: %v", err)
	}
	return path
}

func writeTempWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("renaming sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("adding sheet: %v", err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("writing row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

func TestReadSheet_CSV(t *testing.T) {
	path := writeTempCSV(t, "name,amount,joined\nann,10.5,2024-01-01\nbob,20,2024-01-02\n")
	r := NewDataReader(path)

	tbl, err := r.ReadSheet("")
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if tbl.RowCount() != 2 || tbl.ColumnCount() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", tbl.RowCount(), tbl.ColumnCount())
	}

	name, _ := tbl.Column("name")
	if name.Type() != table.Categorical {
		t.Errorf("name type = %v, want categorical", name.Type())
	}
	amount, _ := tbl.Column("amount")
	if amount.Type() != table.Numeric {
		t.Errorf("amount type = %v, want numeric", amount.Type())
	}
	if v, ok := amount.Float(0); !ok || v != 10.5 {
		t.Errorf("amount[0] = %f, %v", v, ok)
	}
	joined, _ := tbl.Column("joined")
	if joined.Type() != table.Datetime {
		t.Errorf("joined type = %v, want datetime", joined.Type())
	}
}

func TestSheetNames_CSVPseudoSheet(t *testing.T) {
	path := writeTempCSV(t, "a\n1\n")
	r := NewDataReader(path)

	sheets, err := r.SheetNames()
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	if len(sheets) != 1 || sheets[0] != "data" {
		t.Errorf("sheets = %v, want [data]", sheets)
	}
}

func TestReadSheet_Workbook(t *testing.T) {
	path := writeTempWorkbook(t, map[string][][]interface{}{
		"Sales": {
			{"region", "total"},
			{"north", 100},
			{"south", 250},
		},
	})
	r := NewDataReader(path)

	sheets, err := r.SheetNames()
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	if len(sheets) != 1 || sheets[0] != "Sales" {
		t.Fatalf("sheets = %v, want [Sales]", sheets)
	}

	tbl, err := r.ReadSheet("Sales")
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if tbl.RowCount() != 2 || tbl.ColumnCount() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", tbl.RowCount(), tbl.ColumnCount())
	}
	total, _ := tbl.Column("total")
	if total.Type() != table.Numeric {
		t.Errorf("total type = %v, want numeric", total.Type())
	}
	if v, _ := total.Float(1); v != 250 {
		t.Errorf("total[1] = %f, want 250", v)
	}
}

func TestReadSheet_EmptySheetNameUsesFirst(t *testing.T) {
	path := writeTempWorkbook(t, map[string][][]interface{}{
		"Only": {
			{"a"},
			{"x"},
		},
	})
	tbl, err := NewDataReader(path).ReadSheet("")
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if tbl.ColumnCount() != 1 {
		t.Errorf("columns = %d, want 1", tbl.ColumnCount())
	}
}

func TestReadSheet_MissingFile(t *testing.T) {
	r := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"))
	if _, err := r.ReadSheet(""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadSheet_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "a,b\n")
	if _, err := NewDataReader(path).ReadSheet(""); err == nil {
		t.Error("expected error for a file without data rows")
	}
}

func TestReadSheet_RaggedRowsPadded(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3\n")
	tbl, err := NewDataReader(path).ReadSheet("")
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	b, _ := tbl.Column("b")
	if !b.IsNull(1) {
		t.Error("short row cell should be null")
	}
}
