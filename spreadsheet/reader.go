package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ColumnMapping описывает, какие колонки таблицы относятся к полигонам,
// изображениям и описаниям. Колонок изображений и описаний может быть
// несколько, их порядок сохраняется.
type ColumnMapping struct {
	PolygonColumn      string   `json:"polygon_column"`
	ImageColumns       []string `json:"image_columns"`
	DescriptionColumns []string `json:"description_columns"`
}

// Validate проверяет, что маппинг заполнен.
func (m ColumnMapping) Validate() error {
	if strings.TrimSpace(m.PolygonColumn) == "" {
		return fmt.Errorf("polygon column is required")
	}
	if len(m.ImageColumns) == 0 && len(m.DescriptionColumns) == 0 {
		return fmt.Errorf("at least one image or description column is required")
	}
	return nil
}

// Row одна строка таблицы с данными для обновления полигона.
// Пустые ячейки сохраняются как пустые строки, их отфильтрует аккумулятор.
type Row struct {
	PolygonName  string   // Значение колонки с именем полигона, как есть
	Images       []string // Значения колонок изображений в порядке колонок
	Descriptions []string // Значения колонок описаний в порядке колонок
}

// ReadRows читает строки из xlsx-файла согласно маппингу колонок.
//
// Лист выбирается по имени, либо по индексу, если sheet парсится как число
// ("0" - первый лист). Пустое значение sheet означает первый лист.
// Первая строка листа считается заголовком, строки данных возвращаются
// в исходном порядке. Отсутствие обязательной колонки - ошибка с перечнем
// доступных колонок.
func ReadRows(filePath string, sheet string, mapping ColumnMapping) ([]Row, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName, err := selectSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows, expected header row and at least one data row", sheetName)
	}

	return parseRows(rows, mapping)
}

// selectSheet выбирает лист по имени или индексу.
func selectSheet(f *excelize.File, sheet string) (string, error) {
	sheet = strings.TrimSpace(sheet)

	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("no sheets found in Excel file")
		}
		return name, nil
	}

	// Числовое значение трактуем как индекс листа
	if idx, convErr := strconv.Atoi(sheet); convErr == nil {
		name := f.GetSheetName(idx)
		if name == "" {
			return "", fmt.Errorf("sheet index %d is out of range, file has %d sheets", idx, f.SheetCount)
		}
		return name, nil
	}

	for _, name := range f.GetSheetList() {
		if name == sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found, available sheets: %s", sheet, strings.Join(f.GetSheetList(), ", "))
}

// parseRows преобразует сырые строки листа в Row согласно маппингу.
func parseRows(rows [][]string, mapping ColumnMapping) ([]Row, error) {
	headers := rows[0]
	headerMap := make(map[string]int, len(headers))
	for i, header := range headers {
		headerMap[strings.TrimSpace(header)] = i
	}

	columnIndex := func(title string) (int, bool) {
		idx, ok := headerMap[strings.TrimSpace(title)]
		return idx, ok
	}

	// Проверяем наличие всех обязательных колонок
	required := append([]string{mapping.PolygonColumn}, mapping.ImageColumns...)
	required = append(required, mapping.DescriptionColumns...)

	var missing []string
	for _, title := range required {
		if _, ok := columnIndex(title); !ok {
			missing = append(missing, title)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns in Excel file: %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(headers, ", "))
	}

	polygonIdx, _ := columnIndex(mapping.PolygonColumn)

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	result := make([]Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := Row{PolygonName: cell(raw, polygonIdx)}

		for _, title := range mapping.ImageColumns {
			idx, _ := columnIndex(title)
			row.Images = append(row.Images, cell(raw, idx))
		}
		for _, title := range mapping.DescriptionColumns {
			idx, _ := columnIndex(title)
			row.Descriptions = append(row.Descriptions, cell(raw, idx))
		}

		result = append(result, row)
	}

	return result, nil
}
