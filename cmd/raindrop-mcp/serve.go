package main

import (
	"github.com/spf13/cobra"

	"raindrop-mcp/internal/app"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Raindrop.io tools over MCP (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	addServeFlags(cmd.Flags(), opts)
	return cmd
}

func runServe(cmd *cobra.Command, opts *cliOptions) error {
	ctx, cancel := signalAwareContext(cmd.Context())
	defer cancel()

	serveCfg, err := loadServeConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}
	application, err := app.InitializeApplication(ctx, serveCfg, app.LoggingConfig{
		Logger: opts.logger,
		Level:  opts.level,
	})
	if err != nil {
		return err
	}
	return application.Run()
}
