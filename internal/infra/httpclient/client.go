// Package httpclient is the JSON-over-HTTP plumbing shared by the booking and
// payment service adapters.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/authctx"
)

const maxErrorBody = 4 << 10

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func New(baseURL string, timeout time.Duration, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    hc,
	}
}

// Request describes one call. Out is decoded on 2xx, and on any status listed
// in DecodeOn.
type Request struct {
	Method   string
	Path     string
	Body     any
	Out      any
	Header   http.Header
	DecodeOn []int
}

// Do runs the call under the client timeout and classifies failures into
// infra kinds. It returns the status code when a response was received.
func (c *Client) Do(ctx context.Context, r Request) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return 0, infra.NewError(infra.KindRejected, "failed to encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return 0, infra.NewError(infra.KindRejected, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := authctx.BearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, classifyTransport(r, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	decode := ok
	for _, s := range r.DecodeOn {
		if resp.StatusCode == s {
			decode = true
		}
	}

	if decode && r.Out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(r.Out); err != nil && !errors.Is(err, io.EOF) {
			if isTimeout(err) {
				return resp.StatusCode, infra.NewError(infra.KindTimeout, describe(r, "response timed out"), err)
			}
			return resp.StatusCode, infra.NewError(infra.KindUnavailable, describe(r, "malformed response"), err)
		}
	}
	if ok {
		return resp.StatusCode, nil
	}

	msg := readMessage(resp.Body)
	slog.Debug("downstream call failed",
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("message", msg))

	return resp.StatusCode, infra.NewError(KindForStatus(resp.StatusCode), describe(r, fmt.Sprintf("status %d: %s", resp.StatusCode, msg)), nil)
}

func KindForStatus(status int) infra.RepositoryErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return infra.KindUnauthorized
	case status == http.StatusNotFound:
		return infra.KindNotFound
	case status == http.StatusConflict:
		return infra.KindConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return infra.KindTimeout
	case status == http.StatusTooManyRequests || status >= 500:
		return infra.KindUnavailable
	default:
		return infra.KindRejected
	}
}

func classifyTransport(r Request, err error) error {
	if isTimeout(err) {
		return infra.NewError(infra.KindTimeout, describe(r, "request timed out"), err)
	}
	if errors.Is(err, context.Canceled) {
		return infra.NewError(infra.KindTimeout, describe(r, "request cancelled"), err)
	}
	return infra.NewError(infra.KindUnavailable, describe(r, "service unreachable"), err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func describe(r Request, what string) string {
	return r.Method + " " + r.Path + ": " + what
}

// readMessage extracts {"message": ...} or {"error": ...} when present.
func readMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		switch e := payload.Error.(type) {
		case string:
			return e
		case map[string]any:
			if m, ok := e["message"].(string); ok {
				return m
			}
		}
	}
	return strings.TrimSpace(string(data))
}
