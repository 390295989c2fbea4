package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateSheetName имя листа в шаблоне для заполнения данных
const TemplateSheetName = "Polygon Data"

// TemplateMapping маппинг колонок, с которым создается шаблон
// и с которым его потом можно обработать без дополнительной настройки.
var TemplateMapping = ColumnMapping{
	PolygonColumn:      "Polygon_Name",
	ImageColumns:       []string{"Image_URL_1", "Image_URL_2", "Image_URL_3"},
	DescriptionColumns: []string{"Description_1", "Description_2", "Notes"},
}

// WriteTemplate создает пустой шаблон xlsx для ручного заполнения.
//
// Для каждого известного полигона добавляется rowsPerPolygon строк
// с заполненной колонкой имени и пустыми колонками изображений/описаний.
// Несколько строк на полигон позволяют вносить данные по нескольким
// обходам: при обработке они будут слиты в одну запись.
func WriteTemplate(filePath string, polygonNames []string, rowsPerPolygon int) error {
	if rowsPerPolygon < 1 {
		rowsPerPolygon = 1
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(TemplateSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// Заголовки
	headers := append([]string{TemplateMapping.PolygonColumn}, TemplateMapping.ImageColumns...)
	headers = append(headers, TemplateMapping.DescriptionColumns...)

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(TemplateSheetName, cell, header)
		f.SetCellStyle(TemplateSheetName, cell, cell, headerStyle)
	}

	// Строки для заполнения: имя полигона проставлено, остальное пусто
	row := 2
	for _, name := range polygonNames {
		for i := 0; i < rowsPerPolygon; i++ {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			f.SetCellValue(TemplateSheetName, cell, name)
			row++
		}
	}

	// Ширина колонок
	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 20.0
		if i == 0 {
			width = 30.0
		}
		f.SetColWidth(TemplateSheetName, col, col, width)
	}

	f.SetActiveSheet(index)

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save template file: %w", err)
	}

	return nil
}
