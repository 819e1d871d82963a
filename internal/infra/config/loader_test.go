package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
)

// clearEnv unsets every bound variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envBindings {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoader_DefaultsWithTokenFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAINDROP_TOKEN", "  tok-123  ")

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{})
	require.NoError(t, err)

	expect := domain.Config{
		Raindrop: domain.RaindropConfig{
			Token:   "tok-123",
			BaseURL: domain.DefaultBaseURL,
		},
		Transport: domain.TransportStdio,
		HTTP: domain.HTTPConfig{
			Addr: domain.DefaultHTTPAddr,
			Path: domain.DefaultHTTPPath,
		},
		Log: domain.LogConfig{Level: domain.DefaultLogLevel},
	}
	if diff := cmp.Diff(expect, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_MissingToken(t *testing.T) {
	clearEnv(t)

	_, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{})
	require.ErrorIs(t, err, domain.ErrMissingToken)

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{SkipTokenCheck: true})
	require.NoError(t, err)
	require.Empty(t, cfg.Raindrop.Token)
}

func TestLoader_ConfigFileWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_RAINDROP_SECRET", "from-env")
	t.Setenv("TEST_RAINDROP_TIMEOUT", "15")
	file := writeTempFile(t, "raindrop.yaml", `
raindrop:
  token: ${TEST_RAINDROP_SECRET}
  baseURL: https://example.test/rest/v1/
  timeoutSeconds: ${TEST_RAINDROP_TIMEOUT}
  userAgent: "${TEST_RAINDROP_UNSET}agent"
transport: Streamable-HTTP
http:
  addr: 0.0.0.0:9000
  path: rpc
  token: bearer-secret
  stateless: true
observability:
  listenAddress: 127.0.0.1:9100
log:
  level: DEBUG
`)

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{ConfigFile: file})
	require.NoError(t, err)

	expect := domain.Config{
		Raindrop: domain.RaindropConfig{
			Token:     "from-env",
			BaseURL:   "https://example.test/rest/v1",
			Timeout:   15 * time.Second,
			UserAgent: "agent",
		},
		Transport: domain.TransportStreamableHTTP,
		HTTP: domain.HTTPConfig{
			Addr:      "0.0.0.0:9000",
			Path:      "/rpc",
			Token:     "bearer-secret",
			Stateless: true,
		},
		Observability: domain.ObservabilityConfig{ListenAddress: "127.0.0.1:9100"},
		Log:           domain.LogConfig{Level: "debug"},
	}
	if diff := cmp.Diff(expect, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_JSONConfigFile(t *testing.T) {
	clearEnv(t)
	file := writeTempFile(t, "raindrop.json", `{"raindrop":{"token":"json-token"},"log":{"level":"warn"}}`)

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{ConfigFile: file})
	require.NoError(t, err)
	require.Equal(t, "json-token", cfg.Raindrop.Token)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAINDROP_LOG_LEVEL", "error")
	t.Setenv("RAINDROP_HTTP_ADDR", "127.0.0.1:7000")
	file := writeTempFile(t, "raindrop.yaml", `
raindrop:
  token: file-token
log:
  level: warn
`)

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{
		ConfigFile: file,
		Overrides:  map[string]any{KeyLogLevel: "debug"},
	})
	require.NoError(t, err)
	require.Equal(t, "file-token", cfg.Raindrop.Token)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "127.0.0.1:7000", cfg.HTTP.Addr)
}

func TestLoader_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeTempFile(t, "custom.env", "RAINDROP_TOKEN=dotenv-token\nRAINDROP_TRANSPORT=streamable-http\n")

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{EnvFile: envFile})
	require.NoError(t, err)
	require.Equal(t, "dotenv-token", cfg.Raindrop.Token)
	require.Equal(t, domain.TransportStreamableHTTP, cfg.Transport)
}

func TestLoader_EnvFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAINDROP_TOKEN", "tok")

	_, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{
		EnvFile: filepath.Join(t.TempDir(), "absent.env"),
	})
	require.Error(t, err)

	t.Chdir(t.TempDir())
	_, err = NewLoader(zap.NewNop()).Load(context.Background(), Options{EnvFile: domain.DefaultEnvFile})
	require.NoError(t, err)
}

func TestLoader_ValidationErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAINDROP_TOKEN", "tok")

	_, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{
		Overrides: map[string]any{
			KeyTransport:           "carrier-pigeon",
			KeyBaseURL:             "not a url",
			KeyLogLevel:            "loud",
			KeyObservabilityListen: "nowhere",
		},
	})
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "invalid config")
	require.Contains(t, msg, `transport: "carrier-pigeon" must be one of [stdio streamable-http]`)
	require.Contains(t, msg, "raindrop.baseURL")
	require.Contains(t, msg, "log.level")
	require.Contains(t, msg, `observability.listenAddress: "nowhere" is not a host:port address`)
}

func TestExpandConfigEnv_ReportsMissing(t *testing.T) {
	t.Setenv("TEST_EXPAND_PRESENT", "true")
	out, missing, err := expandConfigEnv([]byte("a: ${TEST_EXPAND_PRESENT}\nb: ${TEST_EXPAND_ABSENT_B}\nc: ${TEST_EXPAND_ABSENT_A}\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"TEST_EXPAND_ABSENT_A", "TEST_EXPAND_ABSENT_B"}, missing)
	require.Contains(t, out, "a: true")
}
