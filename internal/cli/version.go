package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/dmitrymomot/alianzmail/internal/cli.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version := Version
			if version == "dev" {
				if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
					version = info.Main.Version
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "alianzmail %s\n", version)
			if GitCommit != "" {
				fmt.Fprintf(out, "  Commit: %s\n", GitCommit)
			}
			if BuildDate != "" {
				fmt.Fprintf(out, "  Built:  %s\n", BuildDate)
			}
		},
	}
}
