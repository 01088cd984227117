// Package codeapi talks to the remote activation code API.
//
// Every call is a single round trip authenticated with the x-admin-token
// header. There is no retry, backoff or request de-duplication: a failed call
// is reported to the caller and the user decides whether to try again.
package codeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// TokenHeader carries the admin credential on every request.
const TokenHeader = "x-admin-token"

var _ repository.ActivationCodeRepository = (*Client)(nil)

// StatusError is returned for any non-2xx response other than 401.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrUpstreamStatus }

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *zerolog.Logger
}

// NewClient builds a client for baseURL. A nil httpClient uses a fresh
// http.Client; timeout bounds each call when positive.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		log:        logger,
	}
}

func (c *Client) List(ctx context.Context, sess *model.Session) ([]*model.ActivationCode, error) {
	var codes []*model.ActivationCode
	if err := c.do(ctx, sess, "list", http.MethodGet, "/admin/codes", nil, &codes); err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []*model.ActivationCode{}
	}
	return codes, nil
}

func (c *Client) Generate(ctx context.Context, sess *model.Session, req model.GenerateRequest) (string, error) {
	var out model.GenerateResponse
	if err := c.do(ctx, sess, "generate", http.MethodPost, "/admin/generate", req, &out); err != nil {
		return "", err
	}
	if out.Code == "" {
		return "", fmt.Errorf("generate: %w: missing code", domain.ErrUpstreamDecode)
	}
	return out.Code, nil
}

func (c *Client) Toggle(ctx context.Context, sess *model.Session, id int64) error {
	return c.do(ctx, sess, "toggle", http.MethodPut, fmt.Sprintf("/admin/code/%d/toggle", id), nil, nil)
}

func (c *Client) Delete(ctx context.Context, sess *model.Session, id int64) error {
	return c.do(ctx, sess, "delete", http.MethodDelete, fmt.Sprintf("/admin/code/%d", id), nil, nil)
}

// do performs one request. body is JSON-encoded when non-nil; out is decoded
// from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, sess *model.Session, op, method, path string, body, out any) (err error) {
	if sess == nil || sess.Token == "" {
		return domain.ErrNoSession
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.ObserveCodeAPICall(op, outcome, time.Since(start))
		l := logging.With(ctx, c.log)
		ev := l.Debug()
		if err != nil {
			ev = l.Warn().Err(err)
		}
		ev.Str("op", op).Str("method", method).Str("path", path).Dur("duration", time.Since(start)).Msg("code_api_call")
	}()

	var rdr io.Reader
	if body != nil {
		b, mErr := json.Marshal(body)
		if mErr != nil {
			outcome = "encode"
			return fmt.Errorf("%s: encode request: %w", op, mErr)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(TokenHeader, sess.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		outcome = "unauthorized"
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status"
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "decode"
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w: empty body", op, domain.ErrUpstreamDecode)
		}
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstreamDecode, err)
	}
	return nil
}
