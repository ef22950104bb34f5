package mailer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/oauth2"
)

// Request assembles one send operation: sender, subject, body and an ordered
// set of named messengers. Not safe for concurrent use; build one per send.
type Request struct {
	tokens       oauth2.TokenSource
	body         *Body
	compiled     *Document
	from         Address
	replyTo      Address
	subject      string
	dispatchTime string
	messengers   []*Messenger
}

// NewRequest creates an empty request.
func NewRequest() *Request {
	return &Request{body: &Body{}}
}

// SetFrom sets the sender. name may be empty.
func (r *Request) SetFrom(email, name string) *Request {
	r.from = Address{Email: email, Name: name}
	return r
}

func (r *Request) SetSubject(subject string) *Request {
	r.subject = subject
	return r
}

// SetReplyTo sets the reply-to address. An empty email removes it.
func (r *Request) SetReplyTo(email, name string) *Request {
	r.replyTo = Address{Email: email, Name: name}
	return r
}

// SetDispatchTime schedules the send ("YYYY-MM-DD HH:MM:SS", unchecked).
func (r *Request) SetDispatchTime(dispatchTime string) *Request {
	r.dispatchTime = dispatchTime
	return r
}

// SetDispatchAt formats t with DispatchTimeLayout in t's location.
func (r *Request) SetDispatchAt(t time.Time) *Request {
	return r.SetDispatchTime(t.Format(DispatchTimeLayout))
}

// SetBody sets the HTML part.
func (r *Request) SetBody(html string) *Request {
	r.body.SetHTML(html)
	return r
}

// SetAlt sets the plain-text alternative.
func (r *Request) SetAlt(text string) *Request {
	r.body.SetText(text)
	return r
}

// SetMarkdown renders markdown into both body parts.
func (r *Request) SetMarkdown(src string) error {
	return r.body.SetMarkdown(src)
}

// Body exposes the message body for direct edits.
func (r *Request) Body() *Body { return r.body }

func (r *Request) From() Address        { return r.from }
func (r *Request) ReplyTo() Address     { return r.replyTo }
func (r *Request) Subject() string      { return r.subject }
func (r *Request) DispatchTime() string { return r.dispatchTime }

// SetCredentials uses token as a static bearer token. An empty token clears
// the credentials.
func (r *Request) SetCredentials(token string) *Request {
	if token == "" {
		r.tokens = nil
		return r
	}
	r.tokens = StaticToken(token)
	return r
}

// SetTokenSource sets a credential source queried on every dispatch.
func (r *Request) SetTokenSource(ts oauth2.TokenSource) *Request {
	r.tokens = ts
	return r
}

// AddMessenger registers m under its name. A messenger already registered
// under that name is replaced in place, keeping its position.
func (r *Request) AddMessenger(m *Messenger) *Request {
	if m == nil {
		return r
	}
	if i := r.indexOf(m.Name()); i >= 0 {
		r.messengers[i] = m
		return r
	}
	r.messengers = append(r.messengers, m)
	return r
}

// CreateMessenger builds a messenger from a definition and registers it.
// Entries in Recipients must carry their own type; Tos, CCs and BCCs imply it.
// On error nothing is registered.
func (r *Request) CreateMessenger(def MessengerDefinition) (*Messenger, error) {
	m := NewMessenger(def.Name).
		SetSubject(def.Subject).
		SetDispatchTime(def.DispatchTime)

	groups := []struct {
		class   Class
		entries []RecipientRecord
		key     string
	}{
		{key: "recipients", class: "", entries: def.Recipients},
		{key: "tos", class: ClassDirect, entries: def.Tos},
		{key: "bccs", class: ClassBCC, entries: def.BCCs},
		{key: "ccs", class: ClassCC, entries: def.CCs},
	}
	for _, g := range groups {
		if err := m.AddMany(g.class, Entries(g.entries)); err != nil {
			return nil, fmt.Errorf("messenger %q %s: %w", m.Name(), g.key, err)
		}
	}

	r.AddMessenger(m)
	return m, nil
}

// DropMessenger removes the messenger registered under name, if any.
func (r *Request) DropMessenger(name string) *Request {
	if i := r.indexOf(name); i >= 0 {
		r.messengers = slices.Delete(r.messengers, i, i+1)
	}
	return r
}

// Messenger returns the messenger registered under name.
func (r *Request) Messenger(name string) (*Messenger, bool) {
	if i := r.indexOf(name); i >= 0 {
		return r.messengers[i], true
	}
	return nil, false
}

// Messengers returns all messengers in registration order.
func (r *Request) Messengers() []*Messenger {
	return slices.Clone(r.messengers)
}

func (r *Request) indexOf(name string) int {
	return slices.IndexFunc(r.messengers, func(m *Messenger) bool {
		return m.Name() == name
	})
}

// Compile validates the request and builds a fresh Document, which is also
// kept as the request's compiled snapshot. Every call recompiles.
func (r *Request) Compile() (*Document, error) {
	r.compiled = nil

	if r.body.HTML() == "" {
		return nil, ErrNoContent
	}
	if r.from.Email == "" {
		return nil, ErrNoSender
	}
	if len(r.messengers) == 0 {
		return nil, ErrNoMessengers
	}

	doc := &Document{
		Subject:      r.subject,
		From:         r.from,
		DispatchTime: r.dispatchTime,
		Message: MessageDocument{
			HTML: r.body.HTML(),
			Text: r.body.AltText(),
		},
		Messengers: make([]MessengerDocument, 0, len(r.messengers)),
	}

	if r.replyTo.Email != "" {
		replyTo := r.replyTo
		doc.ReplyTo = &replyTo
	}

	for _, m := range r.messengers {
		md, err := m.Compile()
		if err != nil {
			return nil, fmt.Errorf("messenger %q: %w", m.Name(), err)
		}
		if md.Subject == "" && r.subject == "" {
			return nil, fmt.Errorf("messenger %q: %w", m.Name(), ErrNoSubject)
		}
		doc.Messengers = append(doc.Messengers, md)
	}

	r.compiled = doc
	return doc, nil
}

// Compiled returns the document from the last successful Compile, or nil.
func (r *Request) Compiled() *Document {
	return r.compiled
}

// Dispatch compiles the request and hands it to d. It fails with
// ErrUnauthorized, without compiling or calling d, when no credentials are set.
func (r *Request) Dispatch(ctx context.Context, d Dispatcher) (*Result, error) {
	if r.tokens == nil {
		return nil, ErrUnauthorized
	}
	if d == nil {
		return nil, ErrNoDispatcher
	}

	doc, err := r.Compile()
	if err != nil {
		return nil, err
	}

	return d.Dispatch(ctx, doc, r.tokens)
}
