package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alianzmail/pkg/mailer"
)

const sampleDefinition = `
from:
  email: news@example.com
  name: Newsletter
reply_to:
  email: support@example.com
subject: October digest
dispatch_time: "2026-10-20 08:00:00"
html: "<p>Hello</p>"
text: Hello
messengers:
  - name: customers
    tos:
      - email: alice@example.com
        name: Alice
    bccs:
      - email: audit@example.com
  - name: staff
    subject: Internal copy
    recipients:
      - email: bob@example.com
        type: to
      - email: carol@example.com
        type: cc
`

func TestParseDefinition(t *testing.T) {
	t.Parallel()

	def, err := mailer.ParseDefinition([]byte(sampleDefinition))
	require.NoError(t, err)

	assert.Equal(t, mailer.Address{Email: "news@example.com", Name: "Newsletter"}, def.From)
	assert.Equal(t, "support@example.com", def.ReplyTo.Email)
	require.Len(t, def.Messengers, 2)
	assert.Equal(t, mailer.ClassDirect, def.Messengers[1].Recipients[0].Type)
	assert.Equal(t, mailer.ClassCC, def.Messengers[1].Recipients[1].Type)
}

func TestParseDefinition_JSON(t *testing.T) {
	t.Parallel()

	def, err := mailer.ParseDefinition([]byte(`{"from": {"email": "a@x.com"}, "subject": "Hi", "html": "<p>hi</p>", ` +
		`"messengers": [{"tos": [{"email": "b@y.com"}]}]}`))
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", def.From.Email)
	require.Len(t, def.Messengers, 1)
	assert.Equal(t, "b@y.com", def.Messengers[0].Tos[0].Email)
}

func TestParseDefinition_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "unknown key", data: "from:\n  email: a@x.com\nreceipients: []\n"},
		{name: "invalid type", data: "messengers:\n  - recipients:\n      - email: a@x.com\n        type: reply\n"},
		{name: "malformed", data: "from: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := mailer.ParseDefinition([]byte(tt.data))
			require.ErrorIs(t, err, mailer.ErrInvalidDefinition)
		})
	}
}

func TestDefinition_Build(t *testing.T) {
	t.Parallel()

	def, err := mailer.ParseDefinition([]byte(sampleDefinition))
	require.NoError(t, err)

	req, err := def.Build()
	require.NoError(t, err)

	doc, err := req.Compile()
	require.NoError(t, err)

	assert.Equal(t, "October digest", doc.Subject)
	assert.Equal(t, "2026-10-20 08:00:00", doc.DispatchTime)
	require.NotNil(t, doc.ReplyTo)
	assert.Equal(t, "support@example.com", doc.ReplyTo.Email)
	assert.Equal(t, mailer.MessageDocument{HTML: "<p>Hello</p>", Text: "Hello"}, doc.Message)

	require.Len(t, doc.Messengers, 2)
	assert.Equal(t, []mailer.Address{{Email: "alice@example.com", Name: "Alice"}}, doc.Messengers[0].To)
	assert.Equal(t, []mailer.Address{{Email: "audit@example.com"}}, doc.Messengers[0].BCC)
	assert.Nil(t, doc.Messengers[0].CC)

	assert.Equal(t, "Internal copy", doc.Messengers[1].Subject)
	assert.Equal(t, []mailer.Address{{Email: "bob@example.com"}}, doc.Messengers[1].To)
	assert.Equal(t, []mailer.Address{{Email: "carol@example.com"}}, doc.Messengers[1].CC)
}

func TestDefinition_BuildMarkdown(t *testing.T) {
	t.Parallel()

	def := &mailer.Definition{
		From:     mailer.Address{Email: "a@x.com"},
		Subject:  "Hi",
		Markdown: "Hello **there**",
		Messengers: []mailer.MessengerDefinition{
			{Tos: []mailer.RecipientRecord{{Email: "b@y.com"}}},
		},
	}

	req, err := def.Build()
	require.NoError(t, err)

	doc, err := req.Compile()
	require.NoError(t, err)
	assert.Contains(t, doc.Message.HTML, "<strong>there</strong>")
	assert.Equal(t, "Hello **there**", doc.Message.Text)
}

func TestDefinition_BuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("html and markdown", func(t *testing.T) {
		t.Parallel()

		def := &mailer.Definition{HTML: "<p>x</p>", Markdown: "x"}
		_, err := def.Build()
		require.ErrorIs(t, err, mailer.ErrInvalidDefinition)
	})

	t.Run("bad messenger", func(t *testing.T) {
		t.Parallel()

		def := &mailer.Definition{
			HTML: "<p>x</p>",
			Messengers: []mailer.MessengerDefinition{
				{Tos: []mailer.RecipientRecord{{Email: "ok@y.com"}}},
				{CCs: []mailer.RecipientRecord{{Name: "no email"}}},
			},
		}
		_, err := def.Build()
		require.ErrorIs(t, err, mailer.ErrMissingEmail)
		assert.Contains(t, err.Error(), "messengers[1]")
	})
}
