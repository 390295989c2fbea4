package planner

import (
	"strings"

	"kmleditor/normalization"
)

// DescriptionSeparator разделитель между фрагментами описания
// и между существующим и новым текстом при слиянии.
const DescriptionSeparator = "\n\n"

// ExistingPolygon текущее содержимое полигона из KML-документа.
// Заполняется KML-коллаборатором; планировщик его только читает.
type ExistingPolygon struct {
	Name            string   // Отображаемое имя из KML, никогда не меняется
	DescriptionText string   // Текст описания без HTML-разметки
	Images          []string // URL изображений, встроенных в описание
}

// UpdatePlan готовые значения для записи в один полигон.
// План вычисляется чисто и применяется внешним KML-коллаборатором;
// до применения документ не меняется.
type UpdatePlan struct {
	TargetName       string   `json:"target_name"`        // Имя полигона в KML
	NewDescription   string   `json:"new_description"`    // Итоговый текст описания
	NewImages        []string `json:"new_images"`         // Итоговый список URL по порядку
	PrimaryMediaLink string   `json:"primary_media_link"` // Первый URL итоговой последовательности
	MatchedFrom      []string `json:"matched_from"`       // Написания имени из таблицы
	Merged           bool     `json:"merged"`             // План построен в режиме слияния
}

// Plan строит план обновления полигона из слитой записи.
//
// При mergeWithExisting=false содержимое полигона игнорируется полностью:
// описание - фрагменты записи через пустую строку, изображения - как есть.
// При mergeWithExisting=true новый текст дописывается после существующего
// (разделитель опускается, если существующего текста нет), а итоговый
// список изображений - существующие, затем новые, с удалением дублей
// по первому вхождению во всей объединенной последовательности.
//
// Первый URL итоговой последовательности назначается primary media link
// для одиночного поля метаданных KML. Запись без изображений и описаний
// не планируется: возвращается ok=false, это no-op, а не ошибка.
func Plan(rec MergedRecord, existing *ExistingPolygon, mergeWithExisting bool) (UpdatePlan, bool) {
	if rec.IsEmpty() {
		return UpdatePlan{}, false
	}

	plan := UpdatePlan{
		MatchedFrom: rec.SourceNames,
		Merged:      mergeWithExisting && existing != nil,
	}

	if existing != nil {
		plan.TargetName = existing.Name
	} else {
		plan.TargetName = rec.DisplayName
	}

	newText := strings.Join(rec.Descriptions, DescriptionSeparator)

	if plan.Merged {
		plan.NewImages = dedupeURLs(existing.Images, rec.Images)
		plan.NewDescription = joinNonEmpty(existing.DescriptionText, newText)
	} else {
		plan.NewImages = dedupeURLs(nil, rec.Images)
		plan.NewDescription = newText
	}

	if len(plan.NewImages) > 0 {
		plan.PrimaryMediaLink = plan.NewImages[0]
	}

	return plan, true
}

// dedupeURLs объединяет последовательности URL, убирая точные дубли
// и сохраняя первое вхождение.
func dedupeURLs(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	result := make([]string, 0, len(existing)+len(added))

	for _, list := range [][]string{existing, added} {
		for _, url := range list {
			if url == "" || seen[url] {
				continue
			}
			seen[url] = true
			result = append(result, url)
		}
	}
	return result
}

// joinNonEmpty соединяет два текста разделителем, опуская пустые части.
func joinNonEmpty(existing, added string) string {
	switch {
	case existing == "":
		return added
	case added == "":
		return existing
	default:
		return existing + DescriptionSeparator + added
	}
}

// AmbiguousGroup группа из таблицы, для которой нашлось несколько кандидатов
type AmbiguousGroup struct {
	SourceName string   `json:"source_name"`
	Candidates []string `json:"candidates"`
}

// Summary структурированный итог построения планов.
// Проблемы качества данных собираются здесь и решение об остановке
// или продолжении принимает вызывающая сторона.
type Summary struct {
	Matched       int              `json:"matched"`        // Групп с построенным планом
	NearMatches   []string         `json:"near_matches"`   // Совпадения с неточным написанием
	Ambiguous     []AmbiguousGroup `json:"ambiguous"`      // Неоднозначные группы, планы не строятся
	Unmatched     []string         `json:"unmatched"`      // Имена без соответствия в KML
	Skipped       []string         `json:"skipped"`        // Пустые группы (no-op)
	DuplicateKeys []string         `json:"duplicate_keys"` // Коллизии ключей в самом KML
	TotalImages   int              `json:"total_images"`
	TotalTexts    int              `json:"total_texts"`
}

// PolygonLookup возвращает текущее содержимое полигона по имени из KML.
type PolygonLookup func(name string) (*ExistingPolygon, error)

// BuildPlans прогоняет слитые записи через резолвер и планировщик.
//
// Для каждой группы: имя резолвится в имя из KML; неоднозначные и
// ненайденные группы попадают в итог и пропускаются, план для них
// не строится. Ошибка lookup для успешно сопоставленного имени считается
// ошибкой программирования на границе и возвращается немедленно.
func BuildPlans(records []MergedRecord, resolver *normalization.Resolver, lookup PolygonLookup, mergeWithExisting bool) ([]UpdatePlan, *Summary, error) {
	summary := &Summary{}

	var plans []UpdatePlan
	for _, rec := range records {
		match := resolver.Resolve(rec.DisplayName)

		switch match.Kind {
		case normalization.MatchAmbiguous:
			summary.Ambiguous = append(summary.Ambiguous, AmbiguousGroup{
				SourceName: rec.DisplayName,
				Candidates: match.Candidates,
			})
			continue
		case normalization.MatchNone:
			summary.Unmatched = append(summary.Unmatched, rec.DisplayName)
			continue
		case normalization.MatchUnique:
			summary.NearMatches = append(summary.NearMatches, rec.DisplayName)
		}

		existing, err := lookup(match.Name)
		if err != nil {
			return nil, nil, err
		}

		plan, ok := Plan(rec, existing, mergeWithExisting)
		if !ok {
			summary.Skipped = append(summary.Skipped, rec.DisplayName)
			continue
		}

		plans = append(plans, plan)
		summary.Matched++
		summary.TotalImages += len(rec.Images)
		summary.TotalTexts += len(rec.Descriptions)
	}

	return plans, summary, nil
}
