package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alianzmail/pkg/mailer"
	"github.com/dmitrymomot/alianzmail/pkg/sandbox"
)

const testDefinition = `
html: "<p>Hello</p>"
messengers:
  - name: customers
    tos:
      - email: alice@example.com
        name: Alice
    bccs:
      - email: audit@example.com
`

const testConfig = `
defaults:
  from:
    email: news@example.com
    name: Newsletter
  subject: Default subject
log:
  level: error
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompileCmd(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)

	out, err := run(t, "compile", "-c", cfg, "-f", def)
	require.NoError(t, err)

	var doc mailer.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, mailer.Address{Email: "news@example.com", Name: "Newsletter"}, doc.From)
	assert.Equal(t, "Default subject", doc.Subject)
	assert.Equal(t, "Hello", doc.Message.Text)
	require.Len(t, doc.Messengers, 1)
	assert.Equal(t, []mailer.Address{{Email: "alice@example.com", Name: "Alice"}}, doc.Messengers[0].To)
	assert.Equal(t, []mailer.Address{{Email: "audit@example.com"}}, doc.Messengers[0].BCC)
}

func TestCompileCmd_OutputFile(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)
	target := filepath.Join(t.TempDir(), "doc.json")

	out, err := run(t, "compile", "-c", cfg, "-f", def, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"news@example.com"`)
}

func TestCompileCmd_ValidationError(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", "log:\n  level: error\n")
	def := writeFile(t, "welcome.yaml", testDefinition)

	_, err := run(t, "compile", "-c", cfg, "-f", def)
	require.ErrorIs(t, err, mailer.ErrNoSender)
}

func TestCompileCmd_Stdin(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", testConfig)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(bytes.NewBufferString(testDefinition))
	cmd.SetArgs([]string{"compile", "-c", cfg, "-f", "-"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), `"alice@example.com"`)
}

func TestCompileCmd_JSONLogs(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", testConfig+"  format: json\n")
	def := writeFile(t, "welcome.yaml", testDefinition)
	target := filepath.Join(t.TempDir(), "doc.json")

	cmd := NewRootCmd()
	var errOut bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"compile", "-c", cfg, "-f", def, "-o", target, "-v"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &rec))
	assert.Equal(t, "document written", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, target, rec["path"])
}

func TestSendCmd_DryRun(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)

	out, err := run(t, "send", "-c", cfg, "-f", def, "--dry-run", "--endpoint", "http://127.0.0.1:1/unused")
	require.NoError(t, err)

	var got sendOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.DryRun)
	assert.Equal(t, 2, got.Recipients)
}

func TestSendCmd_ToSandbox(t *testing.T) {
	t.Parallel()

	sb := sandbox.New(sandbox.WithTokens("secret"))
	srv := httptest.NewServer(sb)
	t.Cleanup(srv.Close)

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)

	out, err := run(t, "send", "-c", cfg, "-f", def, "--token", "secret", "--endpoint", srv.URL+sandbox.SendPath)
	require.NoError(t, err)

	var got sendOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Success)
	assert.Equal(t, 200, got.StatusCode)
	assert.Equal(t, 2, got.Recipients)

	msgs := sb.Store().List()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{msgs[0].ID}, got.ProviderIDs)
	assert.Equal(t, got.DispatchID, msgs[0].RequestID)
}

func TestSendCmd_Rejected(t *testing.T) {
	t.Parallel()

	sb := sandbox.New(sandbox.WithTokens("secret"))
	srv := httptest.NewServer(sb)
	t.Cleanup(srv.Close)

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)

	out, err := run(t, "send", "-c", cfg, "-f", def, "--token", "wrong", "--endpoint", srv.URL+sandbox.SendPath)
	require.ErrorIs(t, err, mailer.ErrRejected)

	var got sendOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Success)
	assert.Equal(t, 401, got.StatusCode)
	assert.Zero(t, sb.Store().Len())
}

func TestSendCmd_NoToken(t *testing.T) {
	t.Setenv("ALIANZMAIL_TOKEN", "")

	sb := sandbox.New()
	srv := httptest.NewServer(sb)
	t.Cleanup(srv.Close)

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)

	_, err := run(t, "send", "-c", cfg, "-f", def, "--endpoint", srv.URL+sandbox.SendPath)
	require.ErrorIs(t, err, mailer.ErrUnauthorized)
	assert.Zero(t, sb.Store().Len())
}

func TestSendCmd_UnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", testConfig)
	def := writeFile(t, "welcome.yaml", testDefinition)

	_, err := run(t, "send", "-c", cfg, "-f", def, "--token", "x", "--provider", "smtp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "smtp"`)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("ALIANZMAIL_PROVIDER", "resend")
	t.Setenv("ALIANZMAIL_TOKEN", "from-env")
	t.Setenv("ALIANZMAIL_ALIANZ_TIMEOUT", "5s")
	t.Setenv("ALIANZMAIL_DEFAULTS_FROM_EMAIL", "env@example.com")

	cfg, err := loadConfig(writeFile(t, "alianzmail.yaml", testConfig))
	require.NoError(t, err)

	assert.Equal(t, ProviderResend, cfg.Provider)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Alianz.Timeout)
	assert.Equal(t, "env@example.com", cfg.Defaults.From.Email)
	assert.Equal(t, "Newsletter", cfg.Defaults.From.Name)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(writeFile(t, "alianzmail.yaml", "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ProviderAlianz, cfg.Provider)
	assert.Equal(t, "https://api.alianzmail.com/v1/mail/send", cfg.Alianz.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Alianz.Timeout)
	assert.Equal(t, 10, cfg.Alianz.MaxRedirects)
	assert.False(t, cfg.Alianz.InsecureSkipVerify)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(writeFile(t, "alianzmail.yaml", "provider: smtp\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")

	_, err = loadConfig(writeFile(t, "alianzmail.yaml", "alianz:\n  endpoint: not-a-url\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alianz.endpoint")

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaults_Apply(t *testing.T) {
	t.Parallel()

	defaults := Defaults{
		From:    mailer.Address{Email: "default@example.com", Name: "Default"},
		ReplyTo: mailer.Address{Email: "reply@example.com"},
		Subject: "Default subject",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		def := &mailer.Definition{}
		require.NoError(t, defaults.apply(def))

		assert.Equal(t, defaults.From, def.From)
		assert.Equal(t, defaults.ReplyTo, def.ReplyTo)
		assert.Equal(t, "Default subject", def.Subject)
	})

	t.Run("explicit address is kept whole", func(t *testing.T) {
		t.Parallel()

		def := &mailer.Definition{
			From:    mailer.Address{Email: "own@example.com"},
			Subject: "Own subject",
		}
		require.NoError(t, defaults.apply(def))

		assert.Equal(t, mailer.Address{Email: "own@example.com"}, def.From)
		assert.Equal(t, "Own subject", def.Subject)
		assert.Equal(t, defaults.ReplyTo, def.ReplyTo)
	})
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, "alianzmail.yaml", "{}\n")
	out, err := run(t, "version", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "alianzmail ")
}
