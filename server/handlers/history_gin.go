package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kmleditor/database"
	apperrors "kmleditor/server/errors"
)

// HistoryHandler обработчик журнала операций обновления
type HistoryHandler struct {
	history *database.HistoryDB
}

// NewHistoryHandler создает новый обработчик журнала
func NewHistoryHandler(history *database.HistoryDB) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// HistoryListResponse структура ответа для журнала операций
type HistoryListResponse struct {
	Operations []database.UpdateOperation `json:"operations"`
	Total      int                        `json:"total"`
}

// HandleHistoryListGin обработчик журнала операций для Gin
// @Summary Получить журнал операций
// @Description Возвращает последние операции обновления, новые первыми
// @Tags history
// @Produce json
// @Param limit query int false "Максимум записей" default(50)
// @Success 200 {object} HistoryListResponse "Журнал операций"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/history [get]
func (h *HistoryHandler) HandleHistoryListGin(c *gin.Context) {
	if h.history == nil {
		SendJSONResponse(c, http.StatusOK, HistoryListResponse{Operations: []database.UpdateOperation{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	ops, err := h.history.ListOperations(limit)
	if err != nil {
		appErr := apperrors.WrapError(err, "не удалось прочитать журнал операций")
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, HistoryListResponse{
		Operations: ops,
		Total:      len(ops),
	})
}
