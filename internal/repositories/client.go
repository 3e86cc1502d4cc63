package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"restaurant_gateway/pkg/metrics"
	"restaurant_gateway/pkg/utils"
)

const maxResponseBytes = 4 << 20

// Request describes one call to the restaurant backend. Route is the path
// template used for metrics and logs; Path is the concrete, unescaped path.
type Request struct {
	Method string
	Route  string
	Path   string
	Query  url.Values
	Body   any
}

// Requester performs backend calls and returns the raw response body.
// Non-2xx statuses come back as one of the package's sentinel errors.
type Requester interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

type tokenKey struct{}

// WithBearerToken attaches the signed-in user's token to outbound calls made with ctx.
func WithBearerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func bearerToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// APIClient talks JSON to the restaurant backend.
type APIClient struct {
	baseURL  *url.URL
	http     *http.Client
	recorder *metrics.Recorder
}

// NewAPIClient builds a client for baseURL. The timeout is the only timeout
// policy in the gateway; there are no retries.
func NewAPIClient(baseURL string, timeout time.Duration, recorder *metrics.Recorder) (*APIClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend base url %q must be absolute", baseURL)
	}
	return &APIClient{
		baseURL:  parsed,
		http:     &http.Client{Timeout: timeout},
		recorder: recorder,
	}, nil
}

// Do sends req and returns the body of a 2xx response.
func (c *APIClient) Do(ctx context.Context, req Request) ([]byte, error) {
	target := *c.baseURL
	target.Path = c.baseURL.Path + req.Path
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s: %w", req.Method, req.Route, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: building %s %s: %v", ErrUpstream, req.Method, req.Route, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := bearerToken(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.recorder.ObserveUpstream(req.Method, req.Route, "error", time.Since(started))
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUpstream, req.Method, req.Route, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.recorder.ObserveUpstream(req.Method, req.Route, strconv.Itoa(resp.StatusCode), time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrUpstream, req.Method, req.Route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		sentinel := errorForStatus(resp.StatusCode)
		msg := upstreamMessage(raw)
		utils.LogDebug("Backend returned error status", map[string]interface{}{
			"method": req.Method, "route": req.Route, "status": resp.StatusCode, "message": msg,
		})
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", sentinel, req.Method, req.Route, resp.StatusCode, msg)
	}
	return raw, nil
}

// upstreamMessage pulls a human message out of an error body when there is one.
func upstreamMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
