package gateway

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
)

type HTTPOptions struct {
	Addr            string
	Path            string
	Token           string
	JSONResponse    bool
	Stateless       bool
	SessionTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// ValidateHTTPOptions rejects an empty address and a public bind without a token.
func ValidateHTTPOptions(opts HTTPOptions) error {
	if strings.TrimSpace(opts.Addr) == "" {
		return errors.New("http address is required")
	}
	if !isLocalhostAddr(opts.Addr) && strings.TrimSpace(opts.Token) == "" {
		return errors.New("http token is required when binding to non-localhost address")
	}
	return nil
}

// Handler builds the streamable HTTP handler, mounted at opts.Path and
// guarded by a bearer token when one is configured.
func (g *Gateway) Handler(opts HTTPOptions) http.Handler {
	var handler http.Handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return g.server
	}, &mcp.StreamableHTTPOptions{
		Stateless:      opts.Stateless,
		JSONResponse:   opts.JSONResponse,
		SessionTimeout: opts.SessionTimeout,
	})
	if token := strings.TrimSpace(opts.Token); token != "" {
		handler = auth.RequireBearerToken(staticTokenVerifier(token), nil)(handler)
	}
	handler = requestIDHandler(handler)

	path := opts.Path
	if path == "" {
		path = domain.DefaultHTTPPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	return mux
}

// RunStreamableHTTP serves MCP over streamable HTTP until ctx is done.
func (g *Gateway) RunStreamableHTTP(ctx context.Context, opts HTTPOptions) error {
	if err := ValidateHTTPOptions(opts); err != nil {
		return err
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = domain.DefaultShutdownTimeoutSeconds * time.Second
	}

	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.Addr, err)
	}

	server := &http.Server{
		Handler:           g.Handler(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	beat := g.health.Register("transport.http", 0)
	defer beat.Stop()
	g.startLogBridge(ctx)

	errChan := make(chan error, 1)
	go func() {
		g.logger.Info("gateway starting",
			telemetry.EventField(telemetry.EventServerStart),
			telemetry.TransportField(string(domain.TransportStreamableHTTP)),
			zap.String("addr", listener.Addr().String()),
			zap.String("path", opts.Path),
			zap.Bool("auth", strings.TrimSpace(opts.Token) != ""),
		)
		beat.Beat()
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			beat.Fail(err)
			return fmt.Errorf("streamable http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		g.logger.Warn("gateway shutdown error", zap.Error(err))
		return err
	}
	g.logger.Info("gateway stopped", telemetry.EventField(telemetry.EventServerStop))
	return nil
}

func staticTokenVerifier(expected string) auth.TokenVerifier {
	return func(_ context.Context, token string, _ *http.Request) (*auth.TokenInfo, error) {
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			return nil, fmt.Errorf("bearer token mismatch: %w", auth.ErrInvalidToken)
		}
		// The middleware rejects tokens without an expiration.
		return &auth.TokenInfo{Expiration: time.Now().Add(time.Hour)}, nil
	}
}

// requestIDHandler echoes a valid inbound request id, or a fresh one, on the response.
func requestIDHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := telemetry.RequestIDFromHeader(r.Header)
		if id == "" {
			id = telemetry.NewRequestID()
			r.Header.Set(telemetry.RequestIDHeader, id)
		}
		w.Header().Set(telemetry.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func isLocalhostAddr(addr string) bool {
	host := addr
	if strings.Contains(addr, ":") {
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		}
	}
	host = strings.TrimSpace(host)
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}
