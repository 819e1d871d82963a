package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"raindrop-mcp/internal/app"
)

func newCallCmd(opts *cliOptions) *cobra.Command {
	var args string
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			if !json.Valid([]byte(args)) {
				return errors.New("--args must be valid JSON")
			}
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

			res := application.Dispatcher().Call(ctx, positional[0], json.RawMessage(args))
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), resultText(res)); err != nil {
				return err
			}
			if res.IsError {
				return exitSilent(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&args, "args", "{}", "tool arguments as a JSON object")
	return cmd
}
