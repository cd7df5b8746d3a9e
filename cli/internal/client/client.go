// Package client is a thin HTTP client for the leaderboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// Client talks to the leaderboard service.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a Client. token may be empty for public endpoints.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Leaderboard fetches the current snapshot for an activity.
func (c *Client) Leaderboard(ctx context.Context, activity string) (*models.LeaderboardResponse, error) {
	var resp models.LeaderboardResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/leaderboard/"+activity, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh triggers a synchronous recomputation for an activity.
func (c *Client) Refresh(ctx context.Context, activity string) (*models.LeaderboardResponse, error) {
	var resp models.LeaderboardResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/refresh/"+activity, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Flagged lists the workouts rejected during the most recent passes.
func (c *Client) Flagged(ctx context.Context) ([]models.FlaggedWorkout, error) {
	var flagged []models.FlaggedWorkout
	if err := c.do(ctx, http.MethodGet, "/api/v1/flagged", nil, &flagged); err != nil {
		return nil, err
	}
	return flagged, nil
}

// RegisterParticipant adds a pubkey to the competition roster.
func (c *Client) RegisterParticipant(ctx context.Context, req models.RegisterParticipantRequest) (*models.Participant, error) {
	var p models.Participant
	if err := c.do(ctx, http.MethodPost, "/api/v1/participants", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr models.ErrorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Code != "" {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
