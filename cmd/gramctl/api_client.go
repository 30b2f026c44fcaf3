package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// batchState mirrors the API's batch output payload
type batchState struct {
	BatchID      string `json:"batch_id"`
	Status       string `json:"status"`
	Total        int    `json:"total"`
	Current      int    `json:"current"`
	SuccessCount int    `json:"success_count"`
	FailureCount int    `json:"failure_count"`
}

// aggregateCounts mirrors the API's stats payload
type aggregateCounts struct {
	ByErrorCode map[string]int `json:"by_error_code"`
	ByMacroCode map[string]int `json:"by_macro_code"`
}

// envelope mirrors the API's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) startBatch(items []string) (*batchState, error) {
	body, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return nil, err
	}
	var out batchState
	if err := c.do(http.MethodPost, "/api/v1/batches", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) getBatch() (*batchState, error) {
	var out batchState
	if err := c.do(http.MethodGet, "/api/v1/batches/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) getStats() (*aggregateCounts, error) {
	var out aggregateCounts
	if err := c.do(http.MethodGet, "/api/v1/batches/current/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) control(action string) (*batchState, error) {
	var out batchState
	if err := c.do(http.MethodPost, "/api/v1/batches/current/"+action, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(method, path string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("request %s failed with status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
