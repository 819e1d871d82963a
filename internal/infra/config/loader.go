package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
)

// Keys understood by the loader. Flags override them through Options.Overrides.
const (
	KeyToken               = "raindrop.token"
	KeyBaseURL             = "raindrop.baseURL"
	KeyTimeoutSeconds      = "raindrop.timeoutSeconds"
	KeyUserAgent           = "raindrop.userAgent"
	KeyTransport           = "transport"
	KeyHTTPAddr            = "http.addr"
	KeyHTTPPath            = "http.path"
	KeyHTTPToken           = "http.token"
	KeyHTTPJSONResponse    = "http.jsonResponse"
	KeyHTTPStateless       = "http.stateless"
	KeyObservabilityListen = "observability.listenAddress"
	KeyLogLevel            = "log.level"
)

// envBindings maps keys to their environment variables.
var envBindings = map[string]string{
	KeyToken:               envName("TOKEN"),
	KeyBaseURL:             envName("BASE_URL"),
	KeyTimeoutSeconds:      envName("TIMEOUT_SECONDS"),
	KeyUserAgent:           envName("USER_AGENT"),
	KeyTransport:           envName("TRANSPORT"),
	KeyHTTPAddr:            envName("HTTP_ADDR"),
	KeyHTTPPath:            envName("HTTP_PATH"),
	KeyHTTPToken:           envName("HTTP_TOKEN"),
	KeyHTTPJSONResponse:    envName("HTTP_JSON_RESPONSE"),
	KeyHTTPStateless:       envName("HTTP_STATELESS"),
	KeyObservabilityListen: envName("METRICS_ADDR"),
	KeyLogLevel:            envName("LOG_LEVEL"),
}

func envName(suffix string) string {
	return domain.DefaultEnvPrefix + "_" + suffix
}

type Options struct {
	// ConfigFile is optional; yaml, json and toml are accepted.
	ConfigFile string
	// EnvFile is loaded into the process environment before reading keys.
	// A missing default file is ignored.
	EnvFile string
	// Overrides are applied last, typically from explicitly set flags.
	Overrides map[string]any
	// SkipTokenCheck allows loading without a credential, for commands that
	// never reach the remote API.
	SkipTokenCheck bool
}

type Loader struct {
	logger   *zap.Logger
	validate *validator.Validate
}

type rawConfig struct {
	Raindrop      rawRaindropConfig      `mapstructure:"raindrop"`
	Transport     string                 `mapstructure:"transport" validate:"oneof=stdio streamable-http"`
	HTTP          rawHTTPConfig          `mapstructure:"http"`
	Observability rawObservabilityConfig `mapstructure:"observability"`
	Log           rawLogConfig           `mapstructure:"log"`
}

type rawRaindropConfig struct {
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"baseURL" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" validate:"gte=0"`
	UserAgent      string `mapstructure:"userAgent"`
}

type rawHTTPConfig struct {
	Addr         string `mapstructure:"addr" validate:"required,listen_addr"`
	Path         string `mapstructure:"path" validate:"required"`
	Token        string `mapstructure:"token"`
	JSONResponse bool   `mapstructure:"jsonResponse"`
	Stateless    bool   `mapstructure:"stateless"`
}

type rawObservabilityConfig struct {
	ListenAddress string `mapstructure:"listenAddress" validate:"omitempty,listen_addr"`
}

type rawLogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		return name
	})
	_ = validate.RegisterValidation("listen_addr", isListenAddr)
	return &Loader{logger: logger.Named("config"), validate: validate}
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyBaseURL, domain.DefaultBaseURL)
	v.SetDefault(KeyTimeoutSeconds, domain.DefaultRequestTimeoutSeconds)
	v.SetDefault(KeyUserAgent, "")
	v.SetDefault(KeyTransport, string(domain.DefaultTransport))
	v.SetDefault(KeyHTTPAddr, domain.DefaultHTTPAddr)
	v.SetDefault(KeyHTTPPath, domain.DefaultHTTPPath)
	v.SetDefault(KeyHTTPToken, "")
	v.SetDefault(KeyHTTPJSONResponse, false)
	v.SetDefault(KeyHTTPStateless, false)
	v.SetDefault(KeyObservabilityListen, domain.DefaultObservabilityListenAddress)
	v.SetDefault(KeyLogLevel, domain.DefaultLogLevel)
}

// Load resolves configuration from defaults, the config file, the environment
// (including the env file) and overrides, in increasing precedence.
func (l *Loader) Load(ctx context.Context, opts Options) (domain.Config, error) {
	if err := l.loadEnvFile(opts.EnvFile); err != nil {
		return domain.Config{}, err
	}

	v := newConfigViper()
	if opts.ConfigFile != "" {
		if err := l.readConfigFile(v, opts.ConfigFile); err != nil {
			return domain.Config{}, err
		}
	}
	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	normalizeRaw(&raw)
	if !opts.SkipTokenCheck && raw.Raindrop.Token == "" {
		return domain.Config{}, domain.ErrMissingToken
	}
	if err := l.validate.Struct(raw); err != nil {
		return domain.Config{}, validationError(err)
	}

	return toDomain(raw), nil
}

func (l *Loader) loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		l.logger.Debug("env file loaded", zap.String("path", path))
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && path == domain.DefaultEnvFile {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func (l *Loader) readConfigFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "", "yaml", "yml":
		expanded, missing, err := expandConfigEnv(data)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			l.logger.Warn("missing environment variables in config", zap.String("path", path), zap.Strings("missing", missing))
		}
		data = []byte(expanded)
	default:
		v.SetConfigType(ext)
	}

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func normalizeRaw(raw *rawConfig) {
	raw.Raindrop.Token = strings.TrimSpace(raw.Raindrop.Token)
	raw.Raindrop.BaseURL = strings.TrimRight(strings.TrimSpace(raw.Raindrop.BaseURL), "/")
	raw.Raindrop.UserAgent = strings.TrimSpace(raw.Raindrop.UserAgent)
	raw.Transport = strings.ToLower(strings.TrimSpace(raw.Transport))
	raw.HTTP.Addr = strings.TrimSpace(raw.HTTP.Addr)
	raw.HTTP.Path = strings.TrimSpace(raw.HTTP.Path)
	if raw.HTTP.Path != "" && !strings.HasPrefix(raw.HTTP.Path, "/") {
		raw.HTTP.Path = "/" + raw.HTTP.Path
	}
	raw.HTTP.Token = strings.TrimSpace(raw.HTTP.Token)
	raw.Observability.ListenAddress = strings.TrimSpace(raw.Observability.ListenAddress)
	raw.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
}

func toDomain(raw rawConfig) domain.Config {
	return domain.Config{
		Raindrop: domain.RaindropConfig{
			Token:     raw.Raindrop.Token,
			BaseURL:   raw.Raindrop.BaseURL,
			Timeout:   time.Duration(raw.Raindrop.TimeoutSeconds) * time.Second,
			UserAgent: raw.Raindrop.UserAgent,
		},
		Transport: domain.Transport(raw.Transport),
		HTTP: domain.HTTPConfig{
			Addr:         raw.HTTP.Addr,
			Path:         raw.HTTP.Path,
			Token:        raw.HTTP.Token,
			JSONResponse: raw.HTTP.JSONResponse,
			Stateless:    raw.HTTP.Stateless,
		},
		Observability: domain.ObservabilityConfig{ListenAddress: raw.Observability.ListenAddress},
		Log:           domain.LogConfig{Level: raw.Log.Level},
	}
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace is rooted at the struct type name.
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, describeTag(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("%q is not a valid url", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", fe.Value(), fe.Param())
	case "listen_addr":
		return fmt.Sprintf("%q is not a host:port address", fe.Value())
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

func isListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}
