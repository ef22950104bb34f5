package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/alianzmail/pkg/mailer"
	"github.com/dmitrymomot/alianzmail/pkg/mailer/alianz"
	"github.com/dmitrymomot/alianzmail/pkg/mailer/resend"
)

type sendOptions struct {
	file     string
	token    string
	provider string
	endpoint string
	dryRun   bool
}

// sendOutput is what send prints on stdout.
type sendOutput struct {
	DispatchID  string   `json:"dispatch_id,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	ProviderIDs []string `json:"provider_ids,omitempty"`
	StatusCode  int      `json:"status_code,omitempty"`
	Recipients  int      `json:"recipients"`
	Success     bool     `json:"success"`
	DryRun      bool     `json:"dry_run,omitempty"`
}

func newSendCmd(a *app) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Compile and dispatch a request definition",
		Long: `Send compiles a request definition and dispatches it once.

The bearer token is taken from --token, the token config key or
ALIANZMAIL_TOKEN. Without a token nothing is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.send(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "request definition (YAML or JSON, - for stdin)")
	cmd.Flags().StringVar(&opts.token, "token", "", "bearer token (overrides config)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "dispatcher to use: alianz or resend (overrides config)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "send endpoint URL (overrides config, alianz only)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compile and validate without sending")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) send(cmd *cobra.Command, opts *sendOptions) error {
	req, err := a.buildRequest(cmd, opts.file)
	if err != nil {
		return err
	}

	if opts.dryRun {
		doc, err := req.Compile()
		if err != nil {
			return fmt.Errorf("failed to compile request: %w", err)
		}
		return writeOutput(cmd.OutOrStdout(), sendOutput{DryRun: true, Success: true, Recipients: doc.Recipients()})
	}

	token := a.cfg.Token
	if opts.token != "" {
		token = opts.token
	}
	req.SetCredentials(token)

	provider := a.cfg.Provider
	if opts.provider != "" {
		provider = opts.provider
	}
	d, err := a.dispatcher(provider, opts.endpoint)
	if err != nil {
		return err
	}

	res, err := req.Dispatch(cmd.Context(), d)
	if res != nil {
		out := sendOutput{
			DispatchID:  res.DispatchID,
			Detail:      res.Detail,
			Duration:    res.Duration.Round(time.Millisecond).String(),
			ProviderIDs: res.ProviderIDs,
			StatusCode:  res.StatusCode,
			Success:     res.Success,
		}
		if doc := req.Compiled(); doc != nil {
			out.Recipients = doc.Recipients()
		}
		if werr := writeOutput(cmd.OutOrStdout(), out); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	a.log.Info("request dispatched", "provider", provider, "dispatch_id", res.DispatchID)
	return nil
}

func (a *app) dispatcher(provider, endpoint string) (mailer.Dispatcher, error) {
	switch provider {
	case ProviderAlianz:
		c, err := alianz.New(a.cfg.Alianz, alianz.WithEndpoint(endpoint), alianz.WithLogger(a.log))
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderResend:
		d, err := resend.New(a.cfg.Resend, resend.WithLogger(a.log))
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

func writeOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
