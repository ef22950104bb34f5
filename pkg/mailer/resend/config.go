package resend

// Config holds Resend dispatcher configuration.
// The API key is not part of it: it comes from the request credentials.
type Config struct {
	// BaseURL overrides the Resend API URL, e.g. for a local imitation.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// Tags are attached to every email sent.
	Tags map[string]string `mapstructure:"tags"`
}
