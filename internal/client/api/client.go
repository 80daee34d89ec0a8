// Package api is the typed REST client for the DropWatch backend. It owns
// the base URL, the bearer token header, and the mapping of error payloads
// into Go errors; it knows nothing about sessions or rendering.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"sync"
	"time"
)

// genericErrMsg is shown when a failed response carries no usable payload.
const genericErrMsg = "request failed"

// tokenInvalidRe matches the auth-failure messages that mean the bearer
// token itself is no longer good (expired, revoked, malformed). A 401 with
// such a message triggers the auth-expired hook so the owner can log the
// session out.
var tokenInvalidRe = regexp.MustCompile(`(?i)token|authoriz|signature`)

// Error is a failed API call: the HTTP status and the server's message
// (verbatim when present, generic otherwise).
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// Client talks to one backend. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu            sync.RWMutex
	token         string
	onAuthExpired func()
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom
// transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithAuthExpiredHook registers a callback invoked when the server rejects
// the current token. The hook runs on the calling goroutine, before the
// error is returned.
func WithAuthExpiredHook(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken attaches a bearer token to every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues one JSON request. body is marshalled when non-nil; the response
// body is decoded into out when non-nil. Failed responses (>=400) become
// *Error with the server's "error" (or "message") field.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
		if resp.StatusCode == http.StatusUnauthorized && tokenInvalidRe.MatchString(apiErr.Message) {
			if hook := c.authExpiredHook(); hook != nil {
				hook()
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) authExpiredHook() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onAuthExpired
}

// errorMessage extracts a human-readable message from a failure payload.
// The backends are inconsistent: some use "error", some "message", some
// "msg".
func errorMessage(raw []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, m := range []string{payload.Error, payload.Message, payload.Msg} {
			if m != "" {
				return m
			}
		}
	}
	return genericErrMsg
}

// UploadCSV posts a csv file as multipart form data to /upload_csv and
// returns the server's acknowledgement message.
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload_csv", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out messageResponse
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
