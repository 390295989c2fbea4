package normalization

import "fmt"

// DuplicateKeyError два разных имени из KML нормализуются в один ключ.
// Это предупреждение, а не фатальная ошибка: в старых файлах легитимно
// встречаются почти одинаковые имена. Используется первое встреченное имя.
type DuplicateKeyError struct {
	Key    string // общий нормализованный ключ
	First  string // имя, закрепленное за ключом
	Second string // имя, вызвавшее коллизию
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate normalized key %q: %q vs %q", e.Key, e.First, e.Second)
}

// NameIndex кэш соответствия нормализованный ключ -> исходное имя полигона.
//
// Индекс строится вызывающей стороной один раз на набор известных имен
// и пересобирается при любом изменении набора. Явная передача индекса
// вместо неявного глобального кэша исключает работу с устаревшими данными.
type NameIndex struct {
	byKey      map[string]string   // ключ -> первое встреченное имя
	bySquashed map[string][]string // ключ без пробелов -> имена в порядке вставки
	order      []string            // исходные имена в порядке вставки
	collisions []*DuplicateKeyError
}

// BuildNameIndex строит индекс по именам полигонов из KML-документа.
// Порядок имен сохраняется: он определяет порядок кандидатов при
// неоднозначном совпадении. Коллизии ключей накапливаются и доступны
// через Collisions.
func BuildNameIndex(knownNames []string) *NameIndex {
	idx := &NameIndex{
		byKey:      make(map[string]string, len(knownNames)),
		bySquashed: make(map[string][]string, len(knownNames)),
	}

	for _, name := range knownNames {
		key := NormalizeName(name)
		if key == "" {
			continue
		}

		if first, exists := idx.byKey[key]; exists {
			// Первое имя побеждает, коллизию фиксируем для отчета
			idx.collisions = append(idx.collisions, &DuplicateKeyError{
				Key:    key,
				First:  first,
				Second: name,
			})
			continue
		}

		idx.byKey[key] = name
		idx.order = append(idx.order, name)

		squashed := stripInnerSpaces(key)
		idx.bySquashed[squashed] = append(idx.bySquashed[squashed], name)
	}

	return idx
}

// Lookup возвращает исходное имя по нормализованному ключу.
func (idx *NameIndex) Lookup(key string) (string, bool) {
	name, ok := idx.byKey[key]
	return name, ok
}

// Names возвращает проиндексированные имена в порядке вставки.
func (idx *NameIndex) Names() []string {
	names := make([]string, len(idx.order))
	copy(names, idx.order)
	return names
}

// Len возвращает количество уникальных ключей в индексе.
func (idx *NameIndex) Len() int {
	return len(idx.byKey)
}

// Collisions возвращает все обнаруженные коллизии ключей.
func (idx *NameIndex) Collisions() []*DuplicateKeyError {
	return idx.collisions
}
