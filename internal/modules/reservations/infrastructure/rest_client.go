package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrUnauthorized     = errors.New("rest store rejected credentials")
	ErrUnexpectedStatus = errors.New("rest store unexpected status")
)

// RESTClient wraps http.Client with base URL and API key handling for the
// PostgREST endpoint exposed by Supabase.
type RESTClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTClient(baseURL, apiKey string, timeout time.Duration, client *http.Client) *RESTClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "http://localhost:54321"
	}
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &RESTClient{baseURL: trimmed, apiKey: strings.TrimSpace(apiKey), client: client}
}

// NewRequest builds a request for /rest/v1/<table> with the given query.
func (c *RESTClient) NewRequest(ctx context.Context, method, table string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + "/rest/v1/" + strings.TrimLeft(table, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// DoJSON executes req and decodes a JSON array of rows into out.
func (c *RESTClient) DoJSON(req *http.Request, out any) error {
	slog.Debug("rest store request", slog.String("method", req.Method), slog.String("url", req.URL.String()))
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rest store %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		slog.Error("rest store unexpected status",
			slog.Int("status", res.StatusCode),
			slog.String("url", req.URL.String()),
			slog.String("body", strings.TrimSpace(string(body))),
		)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}
	if out == nil {
		return nil
	}

	decoder := json.NewDecoder(res.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode rest store response: %w", err)
	}
	return nil
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
