package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"
)

// Генератор тестовых данных: KML-файл с полигонами и таблица обследования
// с реалистичным шумом в именах (регистр, лишние пробелы, опечатки).

const testKMLHeader = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2">
  <Document>
    <name>Generated Test Areas</name>
`

const testKMLFooter = `  </Document>
</kml>
`

func main() {
	gofakeit.Seed(0)

	polygonCount := 50
	rowCount := 120

	dataDir := filepath.Join("tests", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	names := generatePolygonNames(polygonCount)

	kmlPath := filepath.Join(dataDir, "test_areas.kml")
	if err := writeTestKML(kmlPath, names); err != nil {
		log.Fatalf("Failed to write test KML: %v", err)
	}
	fmt.Printf("Created %s (%d polygons)\n", kmlPath, len(names))

	xlsxPath := filepath.Join(dataDir, "test_survey.xlsx")
	if err := writeTestWorkbook(xlsxPath, names, rowCount); err != nil {
		log.Fatalf("Failed to write test workbook: %v", err)
	}
	fmt.Printf("Created %s (%d rows)\n", xlsxPath, rowCount)
}

// generatePolygonNames строит имена вида "Sector 12" / "North Field"
func generatePolygonNames(count int) []string {
	seen := make(map[string]bool)
	var names []string
	for len(names) < count {
		var name string
		switch gofakeit.Number(0, 2) {
		case 0:
			name = fmt.Sprintf("Sector %d", gofakeit.Number(1, 99))
		case 1:
			name = fmt.Sprintf("%s Field", gofakeit.City())
		default:
			name = fmt.Sprintf("Area %s-%d", gofakeit.LetterN(1), gofakeit.Number(1, 50))
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func writeTestKML(path string, names []string) error {
	var b strings.Builder
	b.WriteString(testKMLHeader)
	for i, name := range names {
		// Квадрат 0.01 на 0.01 градуса, сдвинутый по сетке
		lon := 30.0 + float64(i%10)*0.02
		lat := 50.0 + float64(i/10)*0.02
		b.WriteString("    <Placemark>\n")
		fmt.Fprintf(&b, "      <name>%s</name>\n", name)
		b.WriteString("      <Polygon>\n        <outerBoundaryIs>\n          <LinearRing>\n")
		fmt.Fprintf(&b, "            <coordinates>%[1]f,%[2]f,0 %[3]f,%[2]f,0 %[3]f,%[4]f,0 %[1]f,%[4]f,0 %[1]f,%[2]f,0</coordinates>\n",
			lon, lat, lon+0.01, lat+0.01)
		b.WriteString("          </LinearRing>\n        </outerBoundaryIs>\n      </Polygon>\n    </Placemark>\n")
	}
	b.WriteString(testKMLFooter)
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// noisyName искажает имя так, как это делают люди при ручном вводе
func noisyName(name string) string {
	switch gofakeit.Number(0, 4) {
	case 0:
		return strings.ToLower(name)
	case 1:
		return strings.ToUpper(name)
	case 2:
		return "  " + name + " "
	case 3:
		return strings.ReplaceAll(name, " ", "  ")
	default:
		return name
	}
}

func writeTestWorkbook(path string, names []string, rows int) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []string{"Polygon_Name", "Image_URL_1", "Image_URL_2", "Description_1", "Description_2"}
	for col, value := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}

	for i := 0; i < rows; i++ {
		var name string
		if gofakeit.Number(0, 19) == 0 {
			// Имя без соответствия в KML
			name = fmt.Sprintf("Unknown Zone %d", gofakeit.Number(100, 999))
		} else {
			name = noisyName(names[gofakeit.Number(0, len(names)-1)])
		}

		values := []string{
			name,
			gofakeit.ImageURL(640, 480),
			"",
			gofakeit.Sentence(8),
			"",
		}
		if gofakeit.Bool() {
			values[2] = gofakeit.ImageURL(640, 480)
		}
		if gofakeit.Bool() {
			values[4] = gofakeit.Sentence(5)
		}

		for col, value := range values {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
