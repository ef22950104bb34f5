package resend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/resend/resend-go/v3"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/alianzmail/pkg/id"
	"github.com/dmitrymomot/alianzmail/pkg/logger"
	"github.com/dmitrymomot/alianzmail/pkg/mailer"
	"github.com/dmitrymomot/alianzmail/pkg/validator"
)

// Dispatcher implements mailer.Dispatcher on the Resend API. Every messenger
// of a document becomes one Resend email; they are sent in order and the
// first failure stops the dispatch.
type Dispatcher struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *slog.Logger
	cfg        Config
}

var _ mailer.Dispatcher = (*Dispatcher)(nil)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient sets the HTTP client used by the Resend SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Dispatcher) {
		if hc != nil {
			d.httpClient = hc
		}
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Resend dispatcher.
func New(cfg Config, opts ...Option) (*Dispatcher, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	d := &Dispatcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.NewNope(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		d.baseURL = u
	}

	return d, nil
}

// Dispatch sends one email per messenger using the credential token as the
// Resend API key. Result.StatusCode stays zero: the SDK does not expose it.
// When a later messenger fails, the Result lists the ids already sent.
func (d *Dispatcher) Dispatch(ctx context.Context, doc *mailer.Document, creds oauth2.TokenSource) (*mailer.Result, error) {
	tok, err := mailer.BearerToken(creds)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNilDocument
	}

	requests, err := Requests(doc, d.cfg.Tags)
	if err != nil {
		return nil, err
	}

	client := resend.NewCustomClient(d.httpClient, tok.AccessToken)
	if d.baseURL != nil {
		client.BaseURL = d.baseURL
	}

	res := &mailer.Result{DispatchID: id.New()}
	ctx = logger.WithDispatchID(ctx, res.DispatchID)
	start := time.Now()

	for i, req := range requests {
		mctx := logger.WithMessenger(ctx, strconv.Itoa(i))

		sent, err := client.Emails.SendWithContext(mctx, req)
		res.Duration = time.Since(start)
		if err != nil {
			res.Detail = fmt.Sprintf("messenger %d: %v", i, err)
			d.logger.ErrorContext(mctx, "resend dispatch failed", slog.String("error", err.Error()))

			if isTransport(err) {
				err = fmt.Errorf("%w: %w", mailer.ErrTransport, err)
				if len(res.ProviderIDs) == 0 {
					return nil, err
				}
				return res, err
			}
			return res, fmt.Errorf("%w: %w", mailer.ErrRejected, err)
		}
		res.ProviderIDs = append(res.ProviderIDs, sent.Id)
	}

	res.Success = true
	d.logger.InfoContext(ctx, "dispatched via resend",
		slog.Int("emails", len(res.ProviderIDs)),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// Requests maps a document to Resend send requests, one per messenger.
// A messenger's subject and dispatch time override the document's. Groups
// without direct recipients are addressed to the sender, so cc and bcc
// recipients still get the message.
func Requests(doc *mailer.Document, tags map[string]string) ([]*resend.SendEmailRequest, error) {
	out := make([]*resend.SendEmailRequest, 0, len(doc.Messengers))
	resendTags := convertTags(tags)

	for i, m := range doc.Messengers {
		req := &resend.SendEmailRequest{
			From:    doc.From.String(),
			To:      addresses(m.To),
			Cc:      addresses(m.CC),
			Bcc:     addresses(m.BCC),
			Subject: doc.Subject,
			Html:    doc.Message.HTML,
			Text:    doc.Message.Text,
			Tags:    resendTags,
		}
		if m.Subject != "" {
			req.Subject = m.Subject
		}
		if len(req.To) == 0 {
			req.To = []string{doc.From.String()}
		}
		if doc.ReplyTo != nil {
			req.ReplyTo = doc.ReplyTo.String()
		}

		dispatchTime := doc.DispatchTime
		if m.DispatchTime != "" {
			dispatchTime = m.DispatchTime
		}
		if dispatchTime != "" {
			at, err := time.Parse(mailer.DispatchTimeLayout, dispatchTime)
			if err != nil {
				return nil, fmt.Errorf("messenger %d: %w: %q", i, ErrInvalidDispatchTime, dispatchTime)
			}
			req.ScheduledAt = at.UTC().Format(time.RFC3339)
		}

		out = append(out, req)
	}

	return out, nil
}

func addresses(list []mailer.Address) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.String()
	}
	return out
}

func convertTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	slices.Sort(names)

	result := make([]resend.Tag, 0, len(tags))
	for _, name := range names {
		result = append(result, resend.Tag{Name: name, Value: tags[name]})
	}
	return result
}

// isTransport reports whether err happened before a response was received.
func isTransport(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
