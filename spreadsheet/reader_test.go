package spreadsheet

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook создает временный xlsx с указанными листами
func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for sheetName, rows := range sheets {
		if first {
			defaultName := f.GetSheetName(0)
			if defaultName != sheetName {
				if err := f.SetSheetName(defaultName, sheetName); err != nil {
					t.Fatalf("Failed to rename sheet: %v", err)
				}
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				t.Fatalf("Failed to create sheet: %v", err)
			}
		}

		for r, row := range rows {
			for c, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("Failed to build cell name: %v", err)
				}
				if err := f.SetCellValue(sheetName, cell, value); err != nil {
					t.Fatalf("Failed to set cell value: %v", err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

func defaultMapping() ColumnMapping {
	return ColumnMapping{
		PolygonColumn:      "Polygon_Name",
		ImageColumns:       []string{"Image_URL_1", "Image_URL_2"},
		DescriptionColumns: []string{"Description_1"},
	}
}

func TestReadRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Sheet1": {
			{"Polygon_Name", "Image_URL_1", "Image_URL_2", "Description_1"},
			{"Sector A", "http://example.com/1.jpg", "", "First visit"},
			{"  Sector B ", "", "http://example.com/2.jpg", ""},
		},
	})

	rows, err := ReadRows(path, "", defaultMapping())
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}

	expected := []Row{
		{
			PolygonName:  "Sector A",
			Images:       []string{"http://example.com/1.jpg", ""},
			Descriptions: []string{"First visit"},
		},
		{
			PolygonName:  "Sector B",
			Images:       []string{"", "http://example.com/2.jpg"},
			Descriptions: []string{""},
		},
	}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Unexpected rows:\ngot:  %+v\nwant: %+v", rows, expected)
	}
}

func TestReadRowsSheetSelection(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Data": {
			{"Polygon_Name", "Image_URL_1", "Image_URL_2", "Description_1"},
			{"Sector A", "http://example.com/1.jpg", "", "Text"},
		},
	})

	t.Run("by name", func(t *testing.T) {
		rows, err := ReadRows(path, "Data", defaultMapping())
		if err != nil {
			t.Fatalf("ReadRows failed: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("Expected 1 row, got %d", len(rows))
		}
	})

	t.Run("by index", func(t *testing.T) {
		rows, err := ReadRows(path, "0", defaultMapping())
		if err != nil {
			t.Fatalf("ReadRows failed: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("Expected 1 row, got %d", len(rows))
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := ReadRows(path, "5", defaultMapping())
		if err == nil {
			t.Fatal("Expected error for out-of-range sheet index")
		}
	})

	t.Run("unknown sheet name lists available", func(t *testing.T) {
		_, err := ReadRows(path, "Missing", defaultMapping())
		if err == nil {
			t.Fatal("Expected error for unknown sheet")
		}
		if !strings.Contains(err.Error(), "Data") {
			t.Errorf("Error should list available sheets, got: %v", err)
		}
	})
}

func TestReadRowsMissingColumns(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Sheet1": {
			{"Name", "Photo"},
			{"Sector A", "http://example.com/1.jpg"},
		},
	})

	_, err := ReadRows(path, "", defaultMapping())
	if err == nil {
		t.Fatal("Expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "Polygon_Name") {
		t.Errorf("Error should name the missing column, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Photo") {
		t.Errorf("Error should list available columns, got: %v", err)
	}
}

func TestReadRowsEmptySheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Sheet1": {
			{"Polygon_Name", "Image_URL_1", "Image_URL_2", "Description_1"},
		},
	})

	_, err := ReadRows(path, "", defaultMapping())
	if err == nil {
		t.Fatal("Expected error for sheet without data rows")
	}
}

func TestColumnMappingValidate(t *testing.T) {
	if err := (ColumnMapping{}).Validate(); err == nil {
		t.Error("Empty mapping must not validate")
	}
	if err := (ColumnMapping{PolygonColumn: "Name"}).Validate(); err == nil {
		t.Error("Mapping without data columns must not validate")
	}
	m := ColumnMapping{PolygonColumn: "Name", ImageColumns: []string{"Photo"}}
	if err := m.Validate(); err != nil {
		t.Errorf("Valid mapping rejected: %v", err)
	}
}

func TestWriteTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	names := []string{"Sector A", "Sector B"}

	if err := WriteTemplate(path, names, 2); err != nil {
		t.Fatalf("WriteTemplate failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open template: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(TemplateSheetName)
	if err != nil {
		t.Fatalf("Failed to read template sheet: %v", err)
	}

	// Заголовок + 2 строки на каждый из 2 полигонов
	if len(rows) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != TemplateMapping.PolygonColumn {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Sector A" || rows[2][0] != "Sector A" || rows[3][0] != "Sector B" {
		t.Errorf("Unexpected polygon rows: %v", rows)
	}
}
