package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingTripEndpoints = errors.New("origin and destination are both required")
	ErrMissingLineName      = errors.New("line name is required")
	ErrEmptyMessage         = errors.New("message is required")
	ErrNoAgent              = errors.New("assistant agent url is not configured")
)

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: server returned %s", e.Method, e.URL, e.Status)
}

// Client talks to the TransitTracker API. BaseURL is required; AgentURL only
// matters for Ask.
type Client struct {
	BaseURL   string
	AgentURL  string
	UserAgent string

	HTTPClient *http.Client
}

func New(apiConfig config.APIConfig) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(apiConfig.BaseURL, "/"),
		AgentURL:  apiConfig.AgentURL,
		UserAgent: apiConfig.UserAgent,
		HTTPClient: &http.Client{
			Timeout: apiConfig.Timeout,
		},
	}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}

	return c.HTTPClient
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out (if any).
func (c *Client) doJSON(ctx context.Context, method string, requestURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("url", requestURL).
		Int("status", resp.StatusCode).
		Msg("TransitTracker API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)

		return &StatusError{
			Method: method,
			URL:    requestURL,
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
