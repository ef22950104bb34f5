package alianz

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/alianzmail/pkg/id"
	"github.com/dmitrymomot/alianzmail/pkg/logger"
	"github.com/dmitrymomot/alianzmail/pkg/mailer"
)

// maxResponseBytes caps how much of a provider response is kept.
const maxResponseBytes = 1 << 20

// Client implements mailer.Dispatcher for the AlianzMail HTTP API.
// Safe for concurrent use.
type Client struct {
	http   *http.Client
	logger *slog.Logger
	cfg    Config
}

var _ mailer.Dispatcher = (*Client)(nil)

// New creates a Client. Options are applied on top of cfg before validation.
func New(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cfg.applyDefaults()
	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	if c.http == nil {
		c.http = newHTTPClient(c.cfg)
	}

	return c, nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}

// newHTTPClient builds an HTTP/1.1-only client with the configured timeout,
// redirect limit and TLS verification.
func newHTTPClient(cfg Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ForceAttemptHTTP2 = false
	transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	maxRedirects := cfg.MaxRedirects
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if maxRedirects < 0 {
				return http.ErrUseLastResponse
			}
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// Dispatch posts doc once. Credentials are resolved before anything touches
// the network; a missing or empty token fails with mailer.ErrUnauthorized.
func (c *Client) Dispatch(ctx context.Context, doc *mailer.Document, creds oauth2.TokenSource) (*mailer.Result, error) {
	tok, err := mailer.BearerToken(creds)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNilDocument
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("alianz: failed to encode document: %w", err)
	}

	dispatchID := id.New()
	ctx = logger.WithDispatchID(ctx, dispatchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mailer.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", dispatchID)
	tok.SetAuthHeader(req)

	c.logger.DebugContext(ctx, "dispatching",
		slog.String("endpoint", c.cfg.Endpoint),
		slog.Int("messengers", len(doc.Messengers)),
		slog.Int("recipients", doc.Recipients()),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "dispatch failed",
			slog.String("endpoint", c.cfg.Endpoint),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", mailer.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", mailer.ErrTransport, err)
	}

	res := &mailer.Result{
		DispatchID: dispatchID,
		Body:       string(body),
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start),
	}

	if resp.StatusCode != http.StatusOK {
		res.Detail = fmt.Sprintf("provider responded %s", resp.Status)
		c.logger.WarnContext(ctx, "dispatch rejected",
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", res.Duration),
		)
		return res, &mailer.RejectedError{StatusCode: resp.StatusCode, Body: res.Body}
	}

	res.Success = true
	if pid := providerID(body); pid != "" {
		res.ProviderIDs = []string{pid}
	}

	c.logger.InfoContext(ctx, "dispatched",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", res.Duration),
		slog.Any("provider_ids", res.ProviderIDs),
	)

	return res, nil
}

// providerID extracts the "id" field of a JSON response, if there is one.
func providerID(body []byte) string {
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return ""
	}
	return v.ID
}
