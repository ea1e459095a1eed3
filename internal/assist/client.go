package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ruleforge/ruleforge/internal/logging"
)

const (
	// DefaultHTTPTimeout bounds a single collaborator call.
	DefaultHTTPTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20

	userAgent = "ruleforge"
)

// poster sends JSON requests to one collaborator endpoint.
type poster struct {
	httpClient *http.Client
	url        string
}

func newPoster(url string, timeout time.Duration) poster {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return poster{httpClient: &http.Client{Timeout: timeout}, url: url}
}

// post sends payload and returns the raw response body. The body is returned as text
// because collaborators may wrap their JSON in prose or code fences.
func (p poster) post(ctx context.Context, payload any) (string, error) {
	if p.url == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	logging.Debug("collaborator responded", "url", p.url, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	return string(data), nil
}

// StatusError is returned for a non-200 collaborator response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}
