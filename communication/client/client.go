package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"othello/communication"
	"time"
)

type Client struct {
	serverURL string
	http      *http.Client
}

// NewClient returns a client for the analysis server at serverURL.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: time.Minute},
	}
}

func (c *Client) Analyze(ctx context.Context, req communication.AnalysisRequest) (communication.AnalysisResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return communication.AnalysisResponse{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/analysis", bytes.NewReader(data))
	if err != nil {
		return communication.AnalysisResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return communication.AnalysisResponse{}, fmt.Errorf("failed to reach analysis server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e communication.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return communication.AnalysisResponse{}, fmt.Errorf("analysis server returned status %d: %s", resp.StatusCode, e.Error)
	}

	var res communication.AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return communication.AnalysisResponse{}, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return res, nil
}
