package hostaway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"guest_reviews/internal/adapters/upstream"
	"guest_reviews/internal/domain"
)

const reviewsPath = "/reviews"

// Client reads guest reviews from the Hostaway property-management API.
type Client struct {
	up *upstream.Client
}

func New(base, token string, rps int, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("hostaway: access token is required")
	}
	up, err := upstream.New(upstream.Options{
		Service: domain.SourceHostaway,
		BaseURL: base,
		Headers: http.Header{"Authorization": {"Bearer " + token}},
		RPS:     rps,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Client{up: up}, nil
}

func (c *Client) Name() string { return domain.SourceHostaway }

// envelope is the API wrapper; some deployments return the bare array instead.
type envelope struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Result  []domain.HostawayReview `json:"result"`
}

func (c *Client) FetchRecords(ctx context.Context) ([]domain.SourceRecord, error) {
	var raw json.RawMessage
	if err := c.up.GetJSON(ctx, reviewsPath, &raw); err != nil {
		return nil, err
	}
	reviews, err := decodeReviews(raw)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SourceRecord, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, domain.HostawayRecord(r))
	}
	return out, nil
}

func decodeReviews(raw json.RawMessage) ([]domain.HostawayReview, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []domain.HostawayReview
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("hostaway: decode reviews: %w", err)
		}
		return list, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("hostaway: decode envelope: %w", err)
	}
	if env.Status != "" && env.Status != "success" {
		return nil, fmt.Errorf("hostaway: status %q: %s", env.Status, env.Message)
	}
	return env.Result, nil
}
