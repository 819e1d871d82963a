package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"raindrop-mcp/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "raindrop-mcp %s (%s)\n", app.Version, app.Build)
			return err
		},
	}
}
