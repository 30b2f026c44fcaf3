package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AnnotateRequest represents a request to the annotation service
type AnnotateRequest struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
}

// AnnotationPayload represents a single error span in a service response
type AnnotationPayload struct {
	OriginalSpan  string `json:"original_span"`
	CorrectedSpan string `json:"corrected_span"`
	StartIndex    int    `json:"start_index"`
	EndIndex      int    `json:"end_index"`
	ErrorCode     string `json:"error_code"`
	MacroCode     string `json:"macro_code"`
	Explanation   string `json:"explanation"`
}

// AnnotateResponse represents the response from the annotation service
type AnnotateResponse struct {
	CorrectedText string              `json:"corrected_text"`
	Annotations   []AnnotationPayload `json:"annotations"`
	ModelVersion  string              `json:"model_version,omitempty"`
	RequestID     string              `json:"request_id,omitempty"`
}

// HealthResponse represents the annotation service health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ModelVersion string `json:"model_version"`
}

// StatusError reports a non-2xx response from the annotation service
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("annotation service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("annotation service returned status %d: %s", e.StatusCode, e.Body)
}

// GrammarClient is an HTTP client for the grammar annotation service
type GrammarClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGrammarClient creates a new annotation service client
func NewGrammarClient(baseURL, apiKey string, timeout time.Duration) *GrammarClient {
	return &GrammarClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Annotate sends a single text for grammar annotation
func (c *GrammarClient) Annotate(ctx context.Context, text, requestID string) (*AnnotateResponse, error) {
	reqBody := AnnotateRequest{
		Text:      text,
		RequestID: requestID,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/annotate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result AnnotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Health checks the annotation service health
func (c *GrammarClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
