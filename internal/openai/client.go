// Package openai provides a streaming client for OpenAI-compatible chat
// completion APIs.
//
// FILES:
//   - client.go:   HTTP client and SSE reader
//   - types.go:    request and error types
//   - messages.go: conversation turn to wire message mapping
package openai

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/compresr/turnchat/internal/config"
	"github.com/compresr/turnchat/internal/stream"
	"github.com/compresr/turnchat/internal/utils"
)

const (
	userAgent = "turnchat/1.0"

	// maxEventLine bounds a single SSE line; chunks are far smaller.
	maxEventLine = 1024 * 1024
)

// =============================================================================
// Client
// =============================================================================

// Client is the chat completions API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithConnectTimeout bounds dialing and the TLS handshake. There is no
// overall timeout because responses stream for as long as the model writes.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		if timeout <= 0 {
			return
		}
		client.httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		}
	}
}

// NewClient creates a new chat completions client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// =============================================================================
// Streaming
// =============================================================================

// StreamChat sends a streaming chat completion request. Connection failures
// and non-2xx responses are returned as errors. Once the response starts,
// content and mid-stream errors arrive as fragments on the returned channel,
// which is closed when the stream ends or ctx is cancelled.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) (<-chan stream.Fragment, error) {
	body, err := buildRequestBody(req)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log.Debug().
		Str("url", url).
		Str("model", req.Model).
		Int("max_tokens", req.MaxTokens).
		Int("messages", len(req.Messages)).
		Str("api_key", utils.MaskKey(c.apiKey)).
		Msg("sending chat completion request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, config.MaxErrorBodyLen))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(errBody)}
		log.Debug().Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("chat completion rejected")
		return nil, apiErr
	}

	out := make(chan stream.Fragment)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		readEvents(ctx, resp.Body, out)
	}()
	return out, nil
}

func buildRequestBody(req ChatRequest) ([]byte, error) {
	messages := req.Messages
	if messages == nil {
		messages = []Message{}
	}

	body := []byte(`{}`)
	var err error
	for _, field := range []struct {
		path  string
		value any
	}{
		{"model", req.Model},
		{"max_tokens", req.MaxTokens},
		{"stream", true},
		{"messages", messages},
	} {
		if body, err = sjson.SetBytes(body, field.path, field.value); err != nil {
			return nil, fmt.Errorf("building request %s: %w", field.path, err)
		}
	}
	return body, nil
}

// readEvents reads SSE "data:" lines until [DONE], EOF or cancellation and
// sends what they carry on out, in order.
func readEvents(ctx context.Context, body io.Reader, out chan<- stream.Fragment) {
	send := func(f stream.Fragment) bool {
		select {
		case out <- f:
			return true
		case <-ctx.Done():
			return false
		}
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue // blank separators, comments, event: lines
		}
		data = strings.TrimSpace(data)
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return
		}
		for _, f := range parseChunk(data) {
			if !send(f) {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		send(stream.Error(fmt.Errorf("reading stream: %w", err)))
	}
}

// parseChunk extracts content deltas and errors from one chunk payload.
func parseChunk(data string) []stream.Fragment {
	if !gjson.Valid(data) {
		return []stream.Fragment{stream.Error(fmt.Errorf("invalid stream chunk: %s", truncate(data, 80)))}
	}

	var frags []stream.Fragment
	if e := gjson.Get(data, "error"); e.Exists() {
		msg := e.Get("message").String()
		if msg == "" {
			msg = e.String()
		}
		frags = append(frags, stream.Error(errors.New(msg)))
	}

	gjson.Get(data, "choices").ForEach(func(_, choice gjson.Result) bool {
		if content := choice.Get("delta.content").String(); content != "" {
			frags = append(frags, stream.Text(content))
		}
		return true
	})
	return frags
}

// errorMessage pulls error.message out of an error body, falling back to
// the raw body.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return msg
	}
	return truncate(strings.TrimSpace(string(body)), 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
