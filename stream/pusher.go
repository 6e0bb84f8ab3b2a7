package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPPusher posts position pushes as JSON to the location-update endpoint.
type HTTPPusher struct {
	URL        string
	HTTPClient *http.Client
}

// NewHTTPPusher creates a pusher for the given endpoint URL.
func NewHTTPPusher(url string) *HTTPPusher {
	return &HTTPPusher{URL: url, HTTPClient: &http.Client{}}
}

func (p *HTTPPusher) Push(push PositionPush) error {
	body, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}
	resp, err := p.HTTPClient.Post(p.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to push to %s: %w", p.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, p.URL)
	}
	return nil
}
