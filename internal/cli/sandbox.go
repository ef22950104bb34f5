package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/alianzmail/pkg/sandbox"
)

const (
	sandboxReadHeaderTimeout = 10 * time.Second
	sandboxShutdownTimeout   = 10 * time.Second
)

func newSandboxCmd(a *app) *cobra.Command {
	var (
		addr   string
		tokens []string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local imitation of the AlianzMail API",
		Long: `Sandbox serves the send endpoint on a local address and records every
accepted message in memory. Inspect them at /admin/messages.

Point send at it with:
  alianzmail send -f welcome.yaml --endpoint http://localhost:8025/v1/mail/send`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sb := sandbox.New(
				sandbox.WithTokens(tokens...),
				sandbox.WithLogger(a.log),
				sandbox.WithStore(sandbox.NewStore(limit)),
			)
			return serve(ctx, a, addr, sb)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8025", "listen address")
	cmd.Flags().StringSliceVar(&tokens, "token", nil, "accepted bearer tokens (default: any)")
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of recorded messages (0 for no limit)")

	return cmd
}

// serve runs h on addr until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, a *app, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: sandboxReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("sandbox listening",
			"address", ln.Addr().String(),
			"endpoint", "http://"+ln.Addr().String()+sandbox.SendPath,
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down sandbox")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sandboxShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
