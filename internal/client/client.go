// Package client is the Go client for the PetNest REST contract. The admin
// console and petnestctl talk to the API only through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/infra/httpclient"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

const maxResponseBytes = 2 << 20

type Kind string

const (
	KindTransport  Kind = "transport"
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindServer     Kind = "server"
	KindDecode     Kind = "decode"
)

type RequestError struct {
	Op         string
	StatusCode int
	Kind       Kind
	// Code is the server's error code, e.g. ALREADY_DECIDED.
	Code string
	Err  error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", e.Op, e.StatusCode)
	default:
		return e.Op
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func kindOf(err error) (Kind, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind, true
	}
	return "", false
}

func IsAuth(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindAuth
}

func IsValidation(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindValidation
}

func IsNotFound(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindNotFound
}

func IsConflict(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindConflict
}

// IsTransport reports network failures and timeouts, including a context
// deadline hit while waiting for the server.
func IsTransport(err error) bool {
	if kind, ok := kindOf(err); ok {
		return kind == KindTransport
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Message returns the server's message when the error carries one.
func Message(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Err != nil {
		return reqErr.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, &RequestError{Op: "create api client", Kind: KindValidation, Err: errors.New("api url is empty")}
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, &RequestError{Op: "parse api url", Kind: KindValidation, Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{Op: "validate api url", Kind: KindValidation, Err: fmt.Errorf("invalid api url: %s", trimmed)}
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: httpclient.New(timeout),
	}, nil
}

// WithToken returns a copy that sends the bearer token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success    bool            `json:"success"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *dto.Pagination `json:"pagination"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody, data any) (*dto.Pagination, error) {
	var body io.Reader
	if requestBody != nil {
		payload, err := json.Marshal(requestBody)
		if err != nil {
			return nil, &RequestError{Op: "marshal request body", Kind: KindValidation, Err: err}
		}
		body = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, "application/json", body, data)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, data any) (*dto.Pagination, error) {
	if c == nil || c.httpClient == nil {
		return nil, &RequestError{Op: "do request", Kind: KindTransport, Err: errors.New("api client is not initialized")}
	}
	op := method + " " + path

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ensureLeadingSlash(path), body)
	if err != nil {
		return nil, &RequestError{Op: op, Kind: KindValidation, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Kind: KindTransport, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(env.Message)
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
			Code:       env.Code,
			Err:        errors.New(message),
		}
	}
	if resp.StatusCode == http.StatusNoContent || data == nil {
		return env.Pagination, nil
	}
	if decodeErr != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Kind: KindDecode, Err: decodeErr}
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Kind: KindDecode, Err: err}
		}
	}
	return env.Pagination, nil
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

func ensureLeadingSlash(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if strings.HasPrefix(trimmed, "/") {
		return trimmed
	}
	return "/" + trimmed
}
