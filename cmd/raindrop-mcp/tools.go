package main

import (
	"errors"

	"github.com/spf13/cobra"

	"raindrop-mcp/internal/infra/tools"
)

func newToolsCmd() *cobra.Command {
	var jsonOutput, yamlOutput bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput && yamlOutput {
				return errors.New("--json and --yaml are mutually exclusive")
			}
			catalog := tools.Catalog()
			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				return writeJSON(out, catalog)
			case yamlOutput:
				return writeYAML(out, catalog)
			default:
				return printToolCatalog(out, catalog)
			}
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "output YAML")
	return cmd
}
