package normalization

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// formatRunes удаляет невидимые форматирующие символы Unicode (категория Cf):
// направляющие метки RLM/LRM, zero-width joiner, BOM и т.д.
// Такие символы часто попадают в имена полигонов при экспорте из Google Earth
// и из заполненных вручную таблиц.
var formatRunes = runes.Remove(runes.In(unicode.Cf))

// NormalizeName приводит имя полигона к каноническому ключу сравнения.
//
// Шаги выполняются строго в этом порядке:
//  1. Unicode-нормализация NFKC (составные символы приводятся к единой форме)
//  2. Удаление форматирующих символов без глифа по всей строке
//  3. Схлопывание пробельных последовательностей (включая NBSP) в один пробел
//  4. Case folding без учета локали (корректен для нелатинских алфавитов)
//
// Результат используется только для сравнения и поиска, он никогда
// не записывается обратно в документ и не показывается пользователю.
// Функция чистая и идемпотентная.
func NormalizeName(raw string) string {
	if raw == "" {
		return ""
	}

	// 1. Каноническая форма NFKC
	s := norm.NFKC.String(raw)

	// 2. Удаляем направляющие метки и прочие Cf-символы
	s, _, _ = transform.String(formatRunes, s)

	// 3. Нормализуем пробелы: strings.Fields понимает все Unicode-пробелы
	s = strings.Join(strings.Fields(s), " ")

	// 4. Case folding
	s = cases.Fold().String(s)

	return s
}

// CollapseWhitespace схлопывает пробельные последовательности в один пробел
// и обрезает пробелы по краям. Используется для отображаемых значений,
// где полная нормализация ключа не нужна.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// stripInnerSpaces удаляет из ключа все пробелы.
// Применяется только во вторичном, более терпимом проходе сопоставления.
func stripInnerSpaces(key string) string {
	return strings.ReplaceAll(key, " ", "")
}
