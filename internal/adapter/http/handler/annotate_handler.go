package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grammate-io/grammate-api/internal/usecase"
)

// AnnotateHandler handles synchronous single-item annotation
type AnnotateHandler struct {
	annotateUC usecase.AnnotateUsecase
}

// NewAnnotateHandler creates a new annotate handler
func NewAnnotateHandler(annotateUC usecase.AnnotateUsecase) *AnnotateHandler {
	return &AnnotateHandler{annotateUC: annotateUC}
}

// AnnotateInput represents the input for single-item annotation
type AnnotateInput struct {
	Text string `json:"text" binding:"required"`
}

// Annotate handles POST /api/v1/annotate
func (h *AnnotateHandler) Annotate(c *gin.Context) {
	var input AnnotateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	result, err := h.annotateUC.Annotate(c.Request.Context(), input.Text)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, result)
}
