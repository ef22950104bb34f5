package mailer

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/alianzmail/pkg/sanitizer"
)

// goldmark.Markdown is safe for concurrent use once built.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Body holds the HTML part and its plain-text alternative.
type Body struct {
	html string
	text string
}

// NewBody creates a body from both parts. Either may be empty.
func NewBody(htmlPart, textPart string) *Body {
	return &Body{html: htmlPart, text: textPart}
}

func (b *Body) HTML() string { return b.html }
func (b *Body) Text() string { return b.text }

func (b *Body) SetHTML(s string) *Body {
	b.html = s
	return b
}

func (b *Body) SetText(s string) *Body {
	b.text = s
	return b
}

// SetMarkdown renders src (GitHub flavoured) into the HTML part and uses the
// trimmed source as the text part. Raw HTML in src is kept.
func (b *Body) SetMarkdown(src string) error {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return errors.Join(ErrMarkdown, err)
	}
	b.html = buf.String()
	b.text = strings.TrimSpace(src)
	return nil
}

// AltText returns the text part, or text derived from the HTML part when the
// text part is empty.
func (b *Body) AltText() string {
	if b.text != "" {
		return b.text
	}
	return sanitizer.PlainText(b.html)
}
