package cli

import (
	"errors"
	"reflect"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/alianzmail/pkg/logger"
	"github.com/dmitrymomot/alianzmail/pkg/mailer"
	"github.com/dmitrymomot/alianzmail/pkg/mailer/alianz"
	"github.com/dmitrymomot/alianzmail/pkg/mailer/resend"
	"github.com/dmitrymomot/alianzmail/pkg/validator"
)

const envPrefix = "ALIANZMAIL"

// Provider names accepted by --provider and the provider config key.
const (
	ProviderAlianz = "alianz"
	ProviderResend = "resend"
)

// Config is the CLI configuration, read from alianzmail.yaml (or --config)
// and ALIANZMAIL_* environment variables.
type Config struct {
	Defaults Defaults            `mapstructure:"defaults"`
	Sentry   logger.SentryConfig `mapstructure:"sentry"`
	Resend   resend.Config       `mapstructure:"resend"`
	Token    string              `mapstructure:"token"`
	Provider string              `mapstructure:"provider" validate:"oneof=alianz resend"`
	Log      LogConfig           `mapstructure:"log"`
	Alianz   alianz.Config       `mapstructure:"alianz"`
}

// Defaults are merged into every request definition for fields it leaves empty.
type Defaults struct {
	From    mailer.Address `mapstructure:"from"`
	ReplyTo mailer.Address `mapstructure:"reply_to"`
	Subject string         `mapstructure:"subject"`
}

// LogConfig selects the log output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json logfmt"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("provider", ProviderAlianz)

	v.SetDefault("alianz.endpoint", alianz.DefaultEndpoint)
	v.SetDefault("alianz.timeout", alianz.DefaultTimeout)
	v.SetDefault("alianz.max_redirects", alianz.DefaultMaxRedirects)
	v.SetDefault("alianz.insecure_skip_verify", false)
	v.SetDefault("alianz.user_agent", alianz.DefaultUserAgent)

	v.SetDefault("resend.base_url", "")

	v.SetDefault("defaults.from.email", "")
	v.SetDefault("defaults.from.name", "")
	v.SetDefault("defaults.reply_to.email", "")
	v.SetDefault("defaults.reply_to.name", "")
	v.SetDefault("defaults.subject", "")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// loadConfig reads path, or alianzmail.{yaml,json,toml} from the working
// directory and $HOME/.config/alianzmail when path is empty. A missing
// default file is not an error.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("alianzmail")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/alianzmail")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// apply fills the empty fields of def from the defaults. An address is taken
// as a whole: a default name is never combined with an explicit email.
func (d Defaults) apply(def *mailer.Definition) error {
	src := mailer.Definition{
		From:    d.From,
		ReplyTo: d.ReplyTo,
		Subject: d.Subject,
	}
	return mergo.Merge(def, src, mergo.WithTransformers(addressTransformer{}))
}

type addressTransformer struct{}

func (addressTransformer) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t != reflect.TypeFor[mailer.Address]() {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && dst.FieldByName("Email").String() == "" {
			dst.Set(src)
		}
		return nil
	}
}
