package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
	"github.com/grammate-io/grammate-api/internal/usecase"
)

// stubAnnotator returns a canned result, optionally blocking until release
// is closed so tests can observe an in-flight batch.
type stubAnnotator struct {
	release chan struct{}
}

func (s *stubAnnotator) Annotate(_ context.Context, text string) (*entity.AnalysisResult, error) {
	if s.release != nil {
		<-s.release
	}
	return &entity.AnalysisResult{OriginalText: text, CorrectedText: text}, nil
}

type stubRecordRepo struct{}

func (s *stubRecordRepo) Create(context.Context, *entity.Record) error { return nil }
func (s *stubRecordRepo) GetByID(context.Context, uuid.UUID) (*entity.Record, error) {
	return nil, nil
}
func (s *stubRecordRepo) ListRecent(context.Context, int, int) ([]*entity.Record, int64, error) {
	return nil, 0, nil
}
func (s *stubRecordRepo) Count(context.Context) (int64, error)   { return 0, nil }
func (s *stubRecordRepo) Delete(context.Context, uuid.UUID) error { return nil }

func newTestRunner(annotator *stubAnnotator) *usecase.BatchRunner {
	opts := usecase.Options{
		InterItemDelay:    time.Millisecond,
		PausePollInterval: time.Millisecond,
		RecentWindowCap:   100,
	}
	return usecase.NewBatchRunner(&stubRecordRepo{}, annotator, zap.NewNop(), opts)
}

func setupBatchRouter(runner *usecase.BatchRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBatchHandler(runner)
	r := gin.New()
	r.POST("/api/v1/batches", h.StartBatch)
	r.POST("/api/v1/batches/ingest", h.IngestBatch)
	r.GET("/api/v1/batches/current", h.GetBatch)
	r.POST("/api/v1/batches/current/pause", h.PauseBatch)
	r.POST("/api/v1/batches/current/resume", h.ResumeBatch)
	r.POST("/api/v1/batches/current/stop", h.StopBatch)
	r.POST("/api/v1/batches/current/reset", h.ResetBatch)
	r.GET("/api/v1/batches/current/results", h.GetResults)
	r.GET("/api/v1/batches/current/stats", h.GetStats)
	return r
}

func decodeBatchOutput(t *testing.T, body []byte) BatchOutput {
	t.Helper()
	var response Response
	require.NoError(t, json.Unmarshal(body, &response))
	require.True(t, response.Success)

	raw, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var output BatchOutput
	require.NoError(t, json.Unmarshal(raw, &output))
	return output
}

func TestStartBatch_Success(t *testing.T) {
	runner := newTestRunner(&stubAnnotator{})
	router := setupBatchRouter(runner)

	body := `{"items": ["He go school.", "She is happy."]}`
	req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	output := decodeBatchOutput(t, w.Body.Bytes())
	assert.Equal(t, 2, output.Total)
	assert.NotEqual(t, uuid.Nil, output.BatchID)

	<-runner.Done()
}

func TestStartBatch_EmptyItems(t *testing.T) {
	router := setupBatchRouter(newTestRunner(&stubAnnotator{}))

	req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestStartBatch_ConflictWhileRunning(t *testing.T) {
	annotator := &stubAnnotator{release: make(chan struct{})}
	runner := newTestRunner(annotator)
	router := setupBatchRouter(runner)

	req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": ["first"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	req, _ = http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": ["second"]}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")

	close(annotator.release)
	<-runner.Done()
}

func TestIngestBatch(t *testing.T) {
	t.Run("csv body", func(t *testing.T) {
		runner := newTestRunner(&stubAnnotator{})
		router := setupBatchRouter(runner)

		body := "He go school.,note\nShe is happy.,note\n"
		req, _ := http.NewRequest("POST", "/api/v1/batches/ingest?format=csv", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		output := decodeBatchOutput(t, w.Body.Bytes())
		assert.Equal(t, 2, output.Total)

		<-runner.Done()
	})

	t.Run("unknown format", func(t *testing.T) {
		router := setupBatchRouter(newTestRunner(&stubAnnotator{}))

		req, _ := http.NewRequest("POST", "/api/v1/batches/ingest?format=xml", strings.NewReader("x"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		router := setupBatchRouter(newTestRunner(&stubAnnotator{}))

		req, _ := http.NewRequest("POST", "/api/v1/batches/ingest", strings.NewReader("\n\n"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetBatch_Idle(t *testing.T) {
	router := setupBatchRouter(newTestRunner(&stubAnnotator{}))

	req, _ := http.NewRequest("GET", "/api/v1/batches/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	output := decodeBatchOutput(t, w.Body.Bytes())
	assert.Equal(t, entity.RunStatusIdle, output.Status)
	assert.Equal(t, 0, output.Total)
}

func TestBatchControls(t *testing.T) {
	annotator := &stubAnnotator{release: make(chan struct{})}
	runner := newTestRunner(annotator)
	router := setupBatchRouter(runner)

	req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": ["a", "b", "c"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	for _, action := range []string{"pause", "resume", "stop"} {
		req, _ = http.NewRequest("POST", "/api/v1/batches/current/"+action, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, action)
	}

	close(annotator.release)
	<-runner.Done()

	req, _ = http.NewRequest("GET", "/api/v1/batches/current", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	output := decodeBatchOutput(t, w.Body.Bytes())
	assert.Equal(t, entity.RunStatusStopped, output.Status)
}

func TestResetBatch(t *testing.T) {
	t.Run("conflict while running", func(t *testing.T) {
		annotator := &stubAnnotator{release: make(chan struct{})}
		runner := newTestRunner(annotator)
		router := setupBatchRouter(runner)

		req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": ["a"]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusAccepted, w.Code)

		req, _ = http.NewRequest("POST", "/api/v1/batches/current/reset", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		close(annotator.release)
		<-runner.Done()
	})

	t.Run("clears completed batch", func(t *testing.T) {
		runner := newTestRunner(&stubAnnotator{})
		router := setupBatchRouter(runner)

		req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": ["a"]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusAccepted, w.Code)
		<-runner.Done()

		req, _ = http.NewRequest("POST", "/api/v1/batches/current/reset", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		output := decodeBatchOutput(t, w.Body.Bytes())
		assert.Equal(t, entity.RunStatusIdle, output.Status)
		assert.Equal(t, 0, output.Total)
	})
}

func TestGetResults(t *testing.T) {
	runner := newTestRunner(&stubAnnotator{})
	router := setupBatchRouter(runner)

	req, _ := http.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"items": ["a", "b"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	<-runner.Done()

	req, _ = http.NewRequest("GET", "/api/v1/batches/current/results", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}

func TestGetStats(t *testing.T) {
	router := setupBatchRouter(newTestRunner(&stubAnnotator{}))

	req, _ := http.NewRequest("GET", "/api/v1/batches/current/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
}
