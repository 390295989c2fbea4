package services

import (
	"fmt"
	"log/slog"
	"sync"

	"kmleditor/database"
	"kmleditor/kml"
	"kmleditor/normalization"
	"kmleditor/planner"
	"kmleditor/spreadsheet"
)

// UpdateRequest параметры одной операции обновления из таблицы
type UpdateRequest struct {
	SpreadsheetPath   string                    `json:"spreadsheet_path"`
	Sheet             string                    `json:"sheet"`
	Mapping           spreadsheet.ColumnMapping `json:"mapping"`
	MergeWithExisting bool                      `json:"merge_with_existing"`
	BorderColor       string                    `json:"border_color"` // HTML-цвет границ, пусто - не менять
	OutputPath        string                    `json:"output_path"`  // Пусто - перезаписать исходный файл
}

// UpdateReport итог операции обновления или предпросмотра
type UpdateReport struct {
	Plans       []planner.UpdatePlan `json:"plans"`
	Summary     *planner.Summary     `json:"summary"`
	Applied     bool                 `json:"applied"`
	OperationID string               `json:"operation_id,omitempty"`
}

// EditorService связывает KML-документ, чтение таблиц, планировщик
// и журнал операций. Вся работа с файлами и документом происходит здесь,
// ядро сопоставления и слияния остается чистым.
//
// Документ один на процесс и не потокобезопасен, поэтому доступ к нему
// сериализуется: чтения идут под RLock, применение планов - под Lock.
type EditorService struct {
	mu      sync.RWMutex
	doc     *kml.Document
	history *database.HistoryDB // nil, если журнал отключен
}

// NewEditorService создает сервис поверх загруженного документа.
func NewEditorService(doc *kml.Document, history *database.HistoryDB) *EditorService {
	return &EditorService{doc: doc, history: history}
}

// Document возвращает редактируемый документ.
// Обращаться к нему напрямую можно только когда сервис не обслуживает
// параллельные запросы.
func (s *EditorService) Document() *kml.Document {
	return s.doc
}

// PolygonNames возвращает имена полигонов документа.
func (s *EditorService) PolygonNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.PolygonNames()
}

// newResolver строит резолвер по текущему набору имен документа.
// Индекс пересобирается на каждую операцию: набор имен мог измениться,
// а устаревший кэш опаснее лишней сборки.
func (s *EditorService) newResolver() (*normalization.Resolver, *normalization.NameIndex) {
	index := normalization.BuildNameIndex(s.doc.PolygonNames())
	return normalization.NewResolver(index), index
}

// FindPolygon ищет полигон по имени с нормализацией.
func (s *EditorService) FindPolygon(name string) (*kml.PolygonInfo, normalization.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolver, _ := s.newResolver()
	match := resolver.Resolve(name)
	if !match.Matched() {
		return nil, match, nil
	}

	info, err := s.doc.Polygon(match.Name)
	if err != nil {
		return nil, match, err
	}
	return info, match, nil
}

// buildPlans читает таблицу и строит планы обновления.
// Вызывающий должен держать s.mu (на чтение достаточно).
func (s *EditorService) buildPlans(req UpdateRequest) ([]planner.UpdatePlan, *planner.Summary, error) {
	rows, err := spreadsheet.ReadRows(req.SpreadsheetPath, req.Sheet, req.Mapping)
	if err != nil {
		return nil, nil, err
	}

	resolver, index := s.newResolver()

	lookup := func(name string) (*planner.ExistingPolygon, error) {
		info, lookupErr := s.doc.Polygon(name)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return info.Existing(), nil
	}

	plans, summary, err := planner.BuildPlans(planner.Accumulate(rows), resolver, lookup, req.MergeWithExisting)
	if err != nil {
		return nil, nil, err
	}

	// Коллизии ключей в самом документе попадают в итог как предупреждения
	for _, collision := range index.Collisions() {
		slog.Warn("[buildPlans] Duplicate polygon name key in document",
			"key", collision.Key,
			"first", collision.First,
			"second", collision.Second)
		summary.DuplicateKeys = append(summary.DuplicateKeys, collision.Error())
	}

	return plans, summary, nil
}

// Preview строит планы обновления, не трогая документ.
func (s *EditorService) Preview(req UpdateRequest) (*UpdateReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans, summary, err := s.buildPlans(req)
	if err != nil {
		return nil, err
	}
	return &UpdateReport{Plans: plans, Summary: summary}, nil
}

// ApplyFromSpreadsheet строит планы, применяет их и сохраняет документ.
//
// После применения планов все полигоны получают точки-подписи,
// как делает исходный инструмент, и опционально общий цвет границ.
// Операция фиксируется в журнале, если он подключен.
func (s *EditorService) ApplyFromSpreadsheet(req UpdateRequest) (*UpdateReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, summary, err := s.buildPlans(req)
	if err != nil {
		return nil, err
	}

	for _, plan := range plans {
		if err := s.doc.Apply(plan); err != nil {
			return nil, fmt.Errorf("failed to apply plan for %q: %w", plan.TargetName, err)
		}
	}

	s.doc.AddLabelPoints()
	if req.BorderColor != "" {
		s.doc.SetBorderColor(req.BorderColor)
	}

	if err := s.doc.Save(req.OutputPath); err != nil {
		return nil, err
	}

	report := &UpdateReport{Plans: plans, Summary: summary, Applied: true}

	if s.history != nil {
		opID, histErr := s.history.RecordOperation(database.UpdateOperation{
			KMLFile:         s.doc.Path(),
			SpreadsheetFile: req.SpreadsheetPath,
			MergeMode:       req.MergeWithExisting,
			UpdatedCount:    summary.Matched,
			UnmatchedCount:  len(summary.Unmatched),
			AmbiguousCount:  len(summary.Ambiguous),
			SkippedCount:    len(summary.Skipped),
			ImagesAdded:     summary.TotalImages,
			TextsAdded:      summary.TotalTexts,
		})
		if histErr != nil {
			// Журнал не должен ронять успешно примененное обновление
			slog.Warn("[ApplyFromSpreadsheet] Failed to record operation history", "error", histErr)
		} else {
			report.OperationID = opID
			slog.Info("[ApplyFromSpreadsheet] Update applied",
				"operation_id", opID,
				"updated", summary.Matched,
				"unmatched", len(summary.Unmatched))
		}
	}

	return report, nil
}

// CreateTemplate создает шаблон таблицы для текущего документа.
func (s *EditorService) CreateTemplate(path string, rowsPerPolygon int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spreadsheet.WriteTemplate(path, s.doc.PolygonNames(), rowsPerPolygon)
}
