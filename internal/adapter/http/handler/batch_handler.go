package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/ingest"
	"github.com/grammate-io/grammate-api/internal/usecase"
)

// BatchHandler handles batch run HTTP requests
type BatchHandler struct {
	runner *usecase.BatchRunner
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(runner *usecase.BatchRunner) *BatchHandler {
	return &BatchHandler{runner: runner}
}

// StartBatchInput represents the input for starting a batch
type StartBatchInput struct {
	Items []string `json:"items" binding:"required,min=1"`
}

// BatchOutput represents the state of the current batch
type BatchOutput struct {
	BatchID      uuid.UUID        `json:"batch_id"`
	Status       entity.RunStatus `json:"status"`
	Total        int              `json:"total"`
	Current      int              `json:"current"`
	SuccessCount int              `json:"success_count"`
	FailureCount int              `json:"failure_count"`
}

func (h *BatchHandler) output() *BatchOutput {
	snapshot := h.runner.Progress()
	return &BatchOutput{
		BatchID:      h.runner.BatchID(),
		Status:       snapshot.Status,
		Total:        snapshot.Total,
		Current:      snapshot.Current,
		SuccessCount: snapshot.SuccessCount,
		FailureCount: snapshot.FailureCount,
	}
}

// StartBatch handles POST /api/v1/batches
func (h *BatchHandler) StartBatch(c *gin.Context) {
	var input StartBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	h.start(c, input.Items)
}

// IngestBatch handles POST /api/v1/batches/ingest. The raw body is parsed
// into items using the format query parameter (text, csv, or json).
func (h *BatchHandler) IngestBatch(c *gin.Context) {
	format, err := ingest.ParseFormat(c.DefaultQuery("format", string(ingest.FormatText)))
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	items, err := ingest.Parse(c.Request.Body, format)
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	h.start(c, items)
}

func (h *BatchHandler) start(c *gin.Context, items []string) {
	if _, err := h.runner.Start(items); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusAccepted, h.output())
}

// GetBatch handles GET /api/v1/batches/current
func (h *BatchHandler) GetBatch(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.output())
}

// PauseBatch handles POST /api/v1/batches/current/pause
func (h *BatchHandler) PauseBatch(c *gin.Context) {
	h.runner.Pause()
	respondSuccess(c, http.StatusOK, h.output())
}

// ResumeBatch handles POST /api/v1/batches/current/resume
func (h *BatchHandler) ResumeBatch(c *gin.Context) {
	h.runner.Resume()
	respondSuccess(c, http.StatusOK, h.output())
}

// StopBatch handles POST /api/v1/batches/current/stop. Stopping discards
// all remaining queued items; the caller confirms before invoking this.
func (h *BatchHandler) StopBatch(c *gin.Context) {
	h.runner.Stop()
	respondSuccess(c, http.StatusOK, h.output())
}

// ResetBatch handles POST /api/v1/batches/current/reset
func (h *BatchHandler) ResetBatch(c *gin.Context) {
	if err := h.runner.Reset(); err != nil {
		HandleUsecaseError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, h.output())
}

// GetResults handles GET /api/v1/batches/current/results. It returns the
// bounded most-recent-first window, not the authoritative history.
func (h *BatchHandler) GetResults(c *gin.Context) {
	results := h.runner.RecentResults()
	respondSuccess(c, http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// GetStats handles GET /api/v1/batches/current/stats
func (h *BatchHandler) GetStats(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.runner.Stats())
}
