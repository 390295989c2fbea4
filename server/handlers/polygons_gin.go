package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kmleditor/server/errors"
	"kmleditor/server/services"
)

// PolygonHandler обработчик для чтения полигонов KML-документа
type PolygonHandler struct {
	editorService *services.EditorService
}

// NewPolygonHandler создает новый обработчик для полигонов
func NewPolygonHandler(editorService *services.EditorService) *PolygonHandler {
	return &PolygonHandler{editorService: editorService}
}

// PolygonListResponse структура ответа для списка полигонов
type PolygonListResponse struct {
	Polygons []string `json:"polygons"`
	Total    int      `json:"total"`
}

// PolygonInfoResponse структура ответа для одного полигона
type PolygonInfoResponse struct {
	Name        string   `json:"name"`
	MatchKind   string   `json:"match_kind"`
	Description string   `json:"description"`
	Text        string   `json:"text"`
	Images      []string `json:"images"`
	MediaLinks  []string `json:"media_links"`
	Candidates  []string `json:"candidates,omitempty"`
}

// HandlePolygonsListGin обработчик списка полигонов для Gin
// @Summary Получить список полигонов
// @Description Возвращает имена всех полигонов загруженного KML-документа
// @Tags polygons
// @Produce json
// @Success 200 {object} PolygonListResponse "Список полигонов"
// @Router /api/polygons [get]
func (h *PolygonHandler) HandlePolygonsListGin(c *gin.Context) {
	names := h.editorService.PolygonNames()
	SendJSONResponse(c, http.StatusOK, PolygonListResponse{
		Polygons: names,
		Total:    len(names),
	})
}

// HandlePolygonGetGin обработчик чтения полигона для Gin
// @Summary Получить полигон по имени
// @Description Ищет полигон по имени с нормализацией (регистр, пробелы, невидимые символы)
// @Tags polygons
// @Produce json
// @Param name path string true "Имя полигона"
// @Success 200 {object} PolygonInfoResponse "Содержимое полигона"
// @Failure 404 {object} ErrorResponse "Полигон не найден"
// @Failure 409 {object} ErrorResponse "Имя неоднозначно"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/polygons/{name} [get]
func (h *PolygonHandler) HandlePolygonGetGin(c *gin.Context) {
	name := c.Param("name")

	info, match, err := h.editorService.FindPolygon(name)
	if err != nil {
		appErr := apperrors.WrapError(err, "не удалось прочитать полигон")
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	if !match.Matched() {
		if len(match.Candidates) > 1 {
			c.JSON(http.StatusConflict, gin.H{
				"error":      true,
				"message":    "имя соответствует нескольким полигонам",
				"candidates": match.Candidates,
			})
			return
		}
		SendJSONError(c, http.StatusNotFound, "полигон не найден: "+name)
		return
	}

	SendJSONResponse(c, http.StatusOK, PolygonInfoResponse{
		Name:        info.Name,
		MatchKind:   string(match.Kind),
		Description: info.Description,
		Text:        info.DescriptionText,
		Images:      info.Images,
		MediaLinks:  info.MediaLinks,
	})
}
