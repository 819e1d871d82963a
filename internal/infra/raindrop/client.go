package raindrop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
)

type ClientOptions struct {
	Token     string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the underlying round tripper, mainly for tests.
	Transport http.RoundTripper
	Logger    *zap.Logger
	Metrics   domain.Metrics
}

// Client is a pre-authenticated handle on the Raindrop REST API.
// It is read-only after construction and safe for concurrent use.
type Client struct {
	http    *resty.Client
	logger  *zap.Logger
	metrics domain.Metrics

	raindrops   *RaindropService
	collections *CollectionService
	tags        *TagService
	user        *UserService
	highlights  *HighlightService
	filters     *FilterService
}

func NewClient(opts ClientOptions) (*Client, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = domain.DefaultBaseURL
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = domain.DefaultServerName
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("raindrop")
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetLogger(logger.Sugar())
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}
	rc.OnBeforeRequest(stampRequestID)
	rc.OnAfterResponse(logResponse(logger))

	c := &Client{
		http:    rc,
		logger:  logger,
		metrics: metrics,
	}
	c.raindrops = &RaindropService{client: c}
	c.collections = &CollectionService{client: c}
	c.tags = &TagService{client: c}
	c.user = &UserService{client: c}
	c.highlights = &HighlightService{client: c}
	c.filters = &FilterService{client: c}
	return c, nil
}

func (c *Client) Raindrops() *RaindropService { return c.raindrops }

func (c *Client) Collections() *CollectionService { return c.collections }

func (c *Client) Tags() *TagService { return c.tags }

func (c *Client) User() *UserService { return c.user }

func (c *Client) Highlights() *HighlightService { return c.highlights }

func (c *Client) Filters() *FilterService { return c.filters }

// request describes one outbound call. Route is the path template used for
// metrics and logs; path values are substituted and escaped by resty.
type request struct {
	method     string
	route      string
	pathParams map[string]string
	query      map[string]string
	body       any
}

func (c *Client) do(ctx context.Context, r request) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	if len(r.pathParams) > 0 {
		req.SetPathParams(r.pathParams)
	}
	if len(r.query) > 0 {
		req.SetQueryParams(r.query)
	}
	if r.body != nil {
		req.SetBody(r.body)
	}

	start := time.Now()
	resp, err := req.Execute(r.method, r.route)
	statusCode := 0
	if resp != nil && resp.RawResponse != nil {
		statusCode = resp.StatusCode()
	}
	c.metrics.ObserveRemoteRequest(domain.RemoteRequestMetric{
		Method:     r.method,
		Route:      r.route,
		StatusCode: statusCode,
		Duration:   time.Since(start),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", r.method, r.route, ctxErr)
		}
		return nil, fmt.Errorf("%s %s: %w", r.method, r.route, err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(r.method, r.route, resp.StatusCode(), resp.Status(), resp.Body())
	}
	return rawJSON(resp.Body()), nil
}

// rawJSON keeps the remote payload byte-for-byte when it is JSON.
func rawJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		out := make([]byte, len(trimmed))
		copy(out, trimmed)
		return out
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}

func stampRequestID(_ *resty.Client, req *resty.Request) error {
	if id, ok := telemetry.RequestIDFromContext(req.Context()); ok {
		req.SetHeader(telemetry.RequestIDHeader, id)
	}
	return nil
}

func logResponse(logger *zap.Logger) resty.ResponseMiddleware {
	return func(_ *resty.Client, resp *resty.Response) error {
		if !logger.Core().Enabled(zap.DebugLevel) {
			return nil
		}
		fields := []zap.Field{
			telemetry.EventField(telemetry.EventRemoteRequest),
			telemetry.MethodField(resp.Request.Method),
			zap.String("url", resp.Request.URL),
			telemetry.HTTPStatusField(resp.StatusCode()),
			telemetry.DurationField(resp.Time()),
		}
		telemetry.LoggerWithRequest(resp.Request.Context(), logger).Debug("remote request", fields...)
		return nil
	}
}
