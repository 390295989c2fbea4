package normalization

// MatchKind тип результата сопоставления имени
type MatchKind string

const (
	MatchExact     MatchKind = "exact"     // Полное совпадение исходных строк
	MatchUnique    MatchKind = "unique"    // Единственное совпадение после нормализации
	MatchAmbiguous MatchKind = "ambiguous" // Несколько кандидатов во вторичном проходе
	MatchNone      MatchKind = "no_match"  // Совпадений нет
)

// MatchResult результат сопоставления имени из таблицы с именами из KML
type MatchResult struct {
	Kind       MatchKind `json:"kind"`
	Name       string    `json:"name,omitempty"`       // Имя из KML (для exact/unique)
	Candidates []string  `json:"candidates,omitempty"` // Кандидаты (для ambiguous)
}

// Matched сообщает, удалось ли однозначно определить полигон.
func (r MatchResult) Matched() bool {
	return r.Kind == MatchExact || r.Kind == MatchUnique
}

// Resolver сопоставляет имена полигонов из внешних источников с именами
// из KML-документа. Сопоставление строится на нормализации и точном поиске
// по ключу, без алгоритмов редакционного расстояния: цель - устойчивость
// к мусору кодировки, а не семантическая близость.
type Resolver struct {
	index *NameIndex
}

// NewResolver создает резолвер поверх готового индекса имен.
func NewResolver(index *NameIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve находит полигон для целевого имени.
//
// Основной проход: точный поиск по нормализованному ключу. Если исходные
// строки совпали дословно, результат Exact, иначе Unique - различие только
// в пробелах/регистре/невидимых символах, о чем вызывающая сторона может
// предупредить пользователя.
//
// Вторичный проход: сравнение ключей без внутренних пробелов. Ловит имена
// с непоследовательной расстановкой пробелов ("Area 1" и "Area1").
// Единственный кандидат - Unique, несколько - Ambiguous со всеми
// кандидатами в порядке вставки индекса, ни одного - NoMatch.
// Неоднозначность никогда не разрешается автоматически.
func (r *Resolver) Resolve(target string) MatchResult {
	key := NormalizeName(target)
	if key == "" {
		return MatchResult{Kind: MatchNone}
	}

	if name, ok := r.index.Lookup(key); ok {
		if name == target {
			return MatchResult{Kind: MatchExact, Name: name}
		}
		return MatchResult{Kind: MatchUnique, Name: name}
	}

	// Вторичный проход: игнорируем внутренние пробелы
	candidates := r.index.bySquashed[stripInnerSpaces(key)]
	switch len(candidates) {
	case 0:
		return MatchResult{Kind: MatchNone}
	case 1:
		return MatchResult{Kind: MatchUnique, Name: candidates[0]}
	default:
		result := MatchResult{Kind: MatchAmbiguous}
		result.Candidates = append(result.Candidates, candidates...)
		return result
	}
}
