package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kmleditor/server/errors"
	"kmleditor/server/services"
	"kmleditor/spreadsheet"
)

// UpdateHandler обработчик для операций обновления из таблицы
type UpdateHandler struct {
	editorService *services.EditorService
	uploadDir     string
	defaultMerge  bool
}

// NewUpdateHandler создает новый обработчик обновлений
func NewUpdateHandler(editorService *services.EditorService, uploadDir string, defaultMerge bool) *UpdateHandler {
	return &UpdateHandler{
		editorService: editorService,
		uploadDir:     uploadDir,
		defaultMerge:  defaultMerge,
	}
}

// parseUpdateForm разбирает multipart-форму с таблицей и параметрами.
//
// Файл сохраняется в директорию загрузок с меткой времени в имени,
// чтобы повторные загрузки не затирали друг друга.
func (h *UpdateHandler) parseUpdateForm(c *gin.Context) (services.UpdateRequest, error) {
	var req services.UpdateRequest

	file, err := c.FormFile("file")
	if err != nil {
		return req, apperrors.NewValidationError("не передан файл таблицы ('file')", err)
	}

	fileName := file.Filename
	if !strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		return req, apperrors.NewValidationError(
			fmt.Sprintf("file must have .xlsx extension, got: %s", fileName), nil)
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return req, apperrors.NewInternalError("failed to ensure uploads directory", err)
	}

	savedName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(fileName))
	savedPath := filepath.Join(h.uploadDir, savedName)
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		return req, apperrors.NewInternalError("failed to save uploaded file", err)
	}

	mapping := spreadsheet.ColumnMapping{
		PolygonColumn: c.DefaultPostForm("polygon_column", "Polygon_Name"),
	}
	if v := c.PostForm("image_columns"); v != "" {
		mapping.ImageColumns = splitColumns(v)
	}
	if v := c.PostForm("description_columns"); v != "" {
		mapping.DescriptionColumns = splitColumns(v)
	}
	if len(mapping.ImageColumns) == 0 && len(mapping.DescriptionColumns) == 0 {
		mapping.ImageColumns = []string{"Image_URL_1"}
		mapping.DescriptionColumns = []string{"Description_1"}
	}

	merge := h.defaultMerge
	if v := c.PostForm("merge"); v != "" {
		merge = v == "true" || v == "1"
	}

	req = services.UpdateRequest{
		SpreadsheetPath:   savedPath,
		Sheet:             c.PostForm("sheet"),
		Mapping:           mapping,
		MergeWithExisting: merge,
		BorderColor:       c.PostForm("border_color"),
	}
	return req, nil
}

// splitColumns разбирает список колонок, разделенных запятыми
func splitColumns(raw string) []string {
	var cols []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}
	return cols
}

// HandleUpdatePreviewGin обработчик предпросмотра обновления для Gin
// @Summary Предпросмотр обновления из таблицы
// @Description Строит планы обновления по загруженной таблице, не изменяя KML-документ
// @Tags updates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Таблица .xlsx"
// @Param polygon_column formData string false "Колонка с именем полигона" default(Polygon_Name)
// @Param image_columns formData string false "Колонки с URL изображений, через запятую"
// @Param description_columns formData string false "Колонки с текстом, через запятую"
// @Param sheet formData string false "Имя или номер листа"
// @Param merge formData boolean false "Слияние с существующим содержимым"
// @Success 200 {object} services.UpdateReport "Планы и итоги сопоставления"
// @Failure 400 {object} ErrorResponse "Некорректный запрос"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/updates/preview [post]
func (h *UpdateHandler) HandleUpdatePreviewGin(c *gin.Context) {
	req, err := h.parseUpdateForm(c)
	if err != nil {
		appErr := apperrors.WrapError(err, "некорректный запрос")
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}
	// Предпросмотр ничего не меняет, таблица после обработки не нужна.
	// Примененные таблицы остаются в каталоге загрузок: на них ссылается
	// журнал операций.
	defer os.Remove(req.SpreadsheetPath)

	report, err := h.editorService.Preview(req)
	if err != nil {
		appErr := apperrors.WrapError(err, "не удалось построить предпросмотр")
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, report)
}

// HandleUpdateApplyGin обработчик применения обновления для Gin
// @Summary Применить обновление из таблицы
// @Description Строит планы по загруженной таблице, применяет их к KML-документу и сохраняет файл
// @Tags updates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Таблица .xlsx"
// @Param polygon_column formData string false "Колонка с именем полигона" default(Polygon_Name)
// @Param image_columns formData string false "Колонки с URL изображений, через запятую"
// @Param description_columns formData string false "Колонки с текстом, через запятую"
// @Param sheet formData string false "Имя или номер листа"
// @Param merge formData boolean false "Слияние с существующим содержимым"
// @Param border_color formData string false "HTML-цвет границ, например #2196F3"
// @Success 200 {object} services.UpdateReport "Итоги применения"
// @Failure 400 {object} ErrorResponse "Некорректный запрос"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/updates/apply [post]
func (h *UpdateHandler) HandleUpdateApplyGin(c *gin.Context) {
	req, err := h.parseUpdateForm(c)
	if err != nil {
		appErr := apperrors.WrapError(err, "некорректный запрос")
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	report, err := h.editorService.ApplyFromSpreadsheet(req)
	if err != nil {
		appErr := apperrors.WrapError(err, "не удалось применить обновление")
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, report)
}
