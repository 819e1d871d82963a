package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"raindrop-mcp/internal/app"
	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/config"
)

type cliOptions struct {
	configFile       string
	envFile          string
	logLevel         string
	token            string
	baseURL          string
	timeoutSeconds   int
	transport        string
	httpAddr         string
	httpPath         string
	httpToken        string
	httpJSONResponse bool
	httpStateless    bool
	metricsAddr      string

	logger *zap.Logger
	level  zap.AtomicLevel
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		envFile:   domain.DefaultEnvFile,
		logLevel:  domain.DefaultLogLevel,
		baseURL:   domain.DefaultBaseURL,
		transport: string(domain.DefaultTransport),
		httpAddr:  domain.DefaultHTTPAddr,
		httpPath:  domain.DefaultHTTPPath,
		logger:    zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "raindrop-mcp",
		Short:         "MCP server exposing a Raindrop.io account as tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, level, err := app.NewProcessLogger(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			opts.level = level
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, &opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", opts.envFile, "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "Raindrop.io API token (defaults to RAINDROP_TOKEN)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", opts.baseURL, "Raindrop.io REST API base URL")
	root.PersistentFlags().IntVar(&opts.timeoutSeconds, "timeout", 0, "per-request timeout in seconds (0 disables)")
	addServeFlags(root.Flags(), &opts)

	root.AddCommand(
		newServeCmd(&opts),
		newToolsCmd(),
		newCallCmd(&opts),
		newVersionCmd(),
	)

	return root
}

func addServeFlags(flags *pflag.FlagSet, opts *cliOptions) {
	flags.StringVar(&opts.transport, "transport", opts.transport, "MCP transport (stdio or streamable-http)")
	flags.StringVar(&opts.httpAddr, "http-addr", opts.httpAddr, "streamable HTTP listen address")
	flags.StringVar(&opts.httpPath, "http-path", opts.httpPath, "streamable HTTP endpoint path")
	flags.StringVar(&opts.httpToken, "http-token", "", "streamable HTTP bearer token (required for non-localhost)")
	flags.BoolVar(&opts.httpJSONResponse, "http-json-response", false, "use application/json responses instead of SSE")
	flags.BoolVar(&opts.httpStateless, "http-stateless", false, "serve streamable HTTP without sessions")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "listen address for /metrics and /healthz (empty disables)")
}

// configOverrides maps explicitly set flags onto config keys so they win
// over the file and the environment.
func configOverrides(flags *pflag.FlagSet) map[string]any {
	overrides := make(map[string]any)
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level":
			overrides[config.KeyLogLevel], _ = flags.GetString("log-level")
		case "token":
			overrides[config.KeyToken], _ = flags.GetString("token")
		case "base-url":
			overrides[config.KeyBaseURL], _ = flags.GetString("base-url")
		case "timeout":
			overrides[config.KeyTimeoutSeconds], _ = flags.GetInt("timeout")
		case "transport":
			overrides[config.KeyTransport], _ = flags.GetString("transport")
		case "http-addr":
			overrides[config.KeyHTTPAddr], _ = flags.GetString("http-addr")
		case "http-path":
			overrides[config.KeyHTTPPath], _ = flags.GetString("http-path")
		case "http-token":
			overrides[config.KeyHTTPToken], _ = flags.GetString("http-token")
		case "http-json-response":
			overrides[config.KeyHTTPJSONResponse], _ = flags.GetBool("http-json-response")
		case "http-stateless":
			overrides[config.KeyHTTPStateless], _ = flags.GetBool("http-stateless")
		case "metrics-addr":
			overrides[config.KeyObservabilityListen], _ = flags.GetString("metrics-addr")
		}
	})
	return overrides
}

func configOptions(cmd *cobra.Command, opts *cliOptions) config.Options {
	return config.Options{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
		Overrides:  configOverrides(cmd.Flags()),
	}
}

// loadServeConfig resolves configuration and aligns the process log level with it.
func loadServeConfig(ctx context.Context, cmd *cobra.Command, opts *cliOptions) (app.ServeConfig, error) {
	source := configOptions(cmd, opts)
	cfg, err := config.NewLoader(opts.logger).Load(ctx, source)
	if err != nil {
		return app.ServeConfig{}, err
	}
	if opts.level != (zap.AtomicLevel{}) {
		if err := opts.level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return app.ServeConfig{}, err
		}
	}
	return app.ServeConfig{Config: cfg, Source: source}, nil
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
