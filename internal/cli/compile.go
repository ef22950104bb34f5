package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/alianzmail/pkg/mailer"
)

func newCompileCmd(a *app) *cobra.Command {
	var file, output string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a request definition to the wire document",
		Long: `Compile reads a request definition, merges the configured defaults,
validates it and prints the JSON document that would be sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := a.buildRequest(cmd, file)
			if err != nil {
				return err
			}

			doc, err := req.Compile()
			if err != nil {
				return fmt.Errorf("failed to compile request: %w", err)
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write document: %w", err)
				}
				a.log.Info("document written", "path", output, "recipients", doc.Recipients())
				return nil
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "request definition (YAML or JSON, - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// buildRequest parses the definition at path and applies configured defaults.
func (a *app) buildRequest(cmd *cobra.Command, path string) (*mailer.Request, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	def, err := mailer.ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	if err := a.cfg.Defaults.apply(def); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	req, err := def.Build()
	if err != nil {
		return nil, err
	}
	a.log.Debug("definition loaded", "path", path, "messengers", len(req.Messengers()))

	return req, nil
}
