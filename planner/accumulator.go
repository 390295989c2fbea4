package planner

import (
	"kmleditor/normalization"
	"kmleditor/spreadsheet"
)

// MergedRecord данные всех строк таблицы, относящихся к одному полигону
type MergedRecord struct {
	DisplayName  string   `json:"display_name"` // Первое встреченное написание имени
	Key          string   `json:"-"`            // Нормализованный ключ группы
	Images       []string `json:"images"`       // URL без дублей, в порядке первого появления
	Descriptions []string `json:"descriptions"` // Непустые фрагменты описаний по порядку
	SourceNames  []string `json:"source_names"` // Все варианты написания имени из таблицы
}

// IsEmpty сообщает, что после фильтрации пустых ячеек в записи
// не осталось ни изображений, ни описаний.
func (r MergedRecord) IsEmpty() bool {
	return len(r.Images) == 0 && len(r.Descriptions) == 0
}

// Accumulate группирует строки таблицы по нормализованному ключу имени.
//
// Строки с именами, различающимися только пробелами/регистром/невидимыми
// символами, попадают в одну группу; отображаемым именем группы становится
// первое встреченное написание. Внутри группы изображения склеиваются
// в порядке строк и колонок с удалением точных дублей (сравнение
// чувствительно к регистру, остается первое вхождение). Фрагменты описаний
// склеиваются в том же порядке; разделитель выбирает планировщик, не
// аккумулятор. Пустые ячейки не порождают записей.
//
// Группы возвращаются в порядке первого появления, поэтому весь конвейер
// детерминирован.
func Accumulate(rows []spreadsheet.Row) []MergedRecord {
	byKey := make(map[string]int) // ключ -> индекс в records
	var records []MergedRecord

	for _, row := range rows {
		key := normalization.NormalizeName(row.PolygonName)
		if key == "" {
			continue
		}

		idx, exists := byKey[key]
		if !exists {
			idx = len(records)
			byKey[key] = idx
			records = append(records, MergedRecord{
				DisplayName: row.PolygonName,
				Key:         key,
			})
		}
		rec := &records[idx]

		if !containsString(rec.SourceNames, row.PolygonName) {
			rec.SourceNames = append(rec.SourceNames, row.PolygonName)
		}

		for _, img := range row.Images {
			if img == "" || containsString(rec.Images, img) {
				continue
			}
			rec.Images = append(rec.Images, img)
		}

		for _, desc := range row.Descriptions {
			if desc == "" {
				continue
			}
			rec.Descriptions = append(rec.Descriptions, desc)
		}
	}

	return records
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
