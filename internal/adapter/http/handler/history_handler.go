package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grammate-io/grammate-api/internal/usecase"
)

// HistoryHandler handles persisted-history HTTP requests
type HistoryHandler struct {
	historyUC usecase.HistoryUsecase
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyUC usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{historyUC: historyUC}
}

// ListHistory handles GET /api/v1/history
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	params := ParsePagination(c)

	output, err := h.historyUC.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetRecord handles GET /api/v1/history/:id
func (h *HistoryHandler) GetRecord(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "record id")
		return
	}

	record, err := h.historyUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, record)
}
