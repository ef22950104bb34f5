/*
Package cli provides the alianzmail command line interface.
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/alianzmail/pkg/logger"
)

const sentryFlushTimeout = 2 * time.Second

// app carries state shared by all commands of one invocation.
type app struct {
	cfg     *Config
	log     *slog.Logger
	cfgFile string
	verbose bool
	debug   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "alianzmail",
		Short: "Build and send AlianzMail requests",
		Long: `alianzmail builds send requests for the AlianzMail API from YAML or JSON
definitions, compiles them to the provider's wire document and dispatches them.

Example:
  alianzmail compile -f welcome.yaml        # Print the compiled document
  alianzmail send -f welcome.yaml           # Compile and dispatch
  alianzmail send -f welcome.yaml --dry-run # Validate without sending
  alianzmail sandbox --addr :8025           # Run a local imitation of the API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.FlushSentry(sentryFlushTimeout)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./alianzmail.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug output")

	root.AddCommand(
		newCompileCmd(a),
		newSendCmd(a),
		newSandboxCmd(a),
		newVersionCmd(),
	)

	return root
}

// Execute runs the root command and reports errors on stderr.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) init(w io.Writer) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.log = a.newLogger(w)
	return nil
}

// newLogger writes through charmbracelet/log, or slog's JSON handler for the
// json format, and to Sentry when a DSN is configured. Flags take precedence
// over the configured level.
func (a *app) newLogger(w io.Writer) *slog.Logger {
	level, err := log.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		level = log.WarnLevel
	}
	switch {
	case a.debug:
		level = log.DebugLevel
	case a.verbose:
		level = log.InfoLevel
	}

	if a.cfg.Log.Format == "json" {
		handler := logger.NewHandler(
			logger.WithWriter(w),
			logger.WithFormat(logger.FormatJSON),
			logger.WithLevel(slog.Level(level)),
		)
		return logger.NewWithSentry(a.cfg.Sentry, handler)
	}

	formatter := log.TextFormatter
	if a.cfg.Log.Format == "logfmt" {
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	return logger.NewWithSentry(a.cfg.Sentry, handler)
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
