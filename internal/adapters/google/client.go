package google

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

// Client reads place reviews already associated with listings.
type Client struct {
	up *upstream.Client
}

func New(base, key string, rps int, timeout time.Duration) (*Client, error) {
	h := http.Header{}
	if key != "" {
		h.Set("X-API-Key", key)
	}
	up, err := upstream.New(upstream.Options{
		Service: domain.SourceGoogle,
		BaseURL: base,
		Headers: h,
		RPS:     rps,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Client{up: up}, nil
}

func (c *Client) Name() string { return domain.SourceGoogle }

func (c *Client) FetchRecords(ctx context.Context) ([]domain.SourceRecord, error) {
	var raw json.RawMessage
	if err := c.up.GetJSON(ctx, reviewsPath, &raw); err != nil {
		return nil, err
	}

	var list []domain.GoogleReview
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("google: decode reviews: %w", err)
		}
	} else {
		var body struct {
			Reviews []domain.GoogleReview `json:"reviews"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("google: decode body: %w", err)
		}
		list = body.Reviews
	}

	out := make([]domain.SourceRecord, 0, len(list))
	for _, r := range list {
		out = append(out, domain.GoogleRecord(r))
	}
	return out, nil
}
