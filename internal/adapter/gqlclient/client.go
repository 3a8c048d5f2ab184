// Package gqlclient talks to the ermblog GraphQL API: validated operation
// documents, an HTTP client with retries and a graphql-transport-ws
// subscription client.
package gqlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/deicod/ermblog-console/pkg/ctxutil"
)

const (
	acceptHeader    = "application/graphql-response+json; charset=utf-8, application/json; charset=utf-8"
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// Config configures a Client.
type Config struct {
	Endpoint   string
	Token      string
	TokenType  string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	// OnUnauthorized is called when the API answers 401.
	OnUnauthorized func()
	HTTPClient     *http.Client
}

// Client executes queries and mutations over HTTP POST.
type Client struct {
	cfg  Config
	http *retryablehttp.Client
	log  *slog.Logger
}

// New creates a Client.
func New(log *slog.Logger, cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	log = log.With("component", "gqlclient")

	rc := retryablehttp.NewClient()
	rc.HTTPClient = hc
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryDelay
	rc.RetryWaitMax = cfg.RetryDelay
	rc.CheckRetry = retryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = &retryLogger{log: log}
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.WarnContext(req.Context(), "retrying request",
				slog.String("request_id", req.Header.Get(requestIDHeader)),
				slog.Int("attempt", attempt),
			)
		}
	}

	return &Client{cfg: cfg, http: rc, log: log}
}

// retryPolicy retries transport failures and 5xx answers only.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return resp.StatusCode >= http.StatusInternalServerError, nil
}

// retryLogger adapts slog to retryablehttp.LeveledLogger.
type retryLogger struct {
	log *slog.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...any) { l.log.Error(msg, keysAndValues...) }
func (l *retryLogger) Info(msg string, keysAndValues ...any)  { l.log.Info(msg, keysAndValues...) }
func (l *retryLogger) Debug(msg string, keysAndValues ...any) { l.log.Debug(msg, keysAndValues...) }
func (l *retryLogger) Warn(msg string, keysAndValues ...any)  { l.log.Warn(msg, keysAndValues...) }

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

// Do runs op with vars and decodes the response data into out. Transport
// failures and 5xx answers are retried up to MaxRetries times.
func (c *Client) Do(ctx context.Context, op Operation, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: op.Text, OperationName: op.Name, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode %s: %w", op.Name, err)
	}

	requestID := ctxutil.RequestIDFromCtx(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	raw, err := c.send(ctx, body, requestID)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op.Name, err)
	}
	return decode(op, raw, out)
}

// send posts body, retrying per retryPolicy. The final answer is mapped to
// a NetworkError unless it is a 2xx.
func (c *Client) send(ctx context.Context, body []byte, requestID string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set(requestIDHeader, requestID)
	if auth := authorization(c.cfg.TokenType, c.cfg.Token); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && c.cfg.OnUnauthorized != nil {
		c.cfg.OnUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Status: resp.StatusCode, Body: truncate(raw)}
	}
	return raw, nil
}

func decode(op Operation, raw []byte, out any) error {
	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("%s: %w", op.Name, &NetworkError{Status: http.StatusOK, Body: truncate(raw), Err: err})
	}
	if len(resp.Errors) > 0 {
		return &GraphQLError{Operation: op.Name, Errors: resp.Errors}
	}
	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", op.Name, err)
	}
	return nil
}

// authorization formats the Authorization header value. The token type
// defaults to Bearer.
func authorization(tokenType, token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	tokenType = strings.TrimSpace(tokenType)
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + token
}

func truncate(raw []byte) string {
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return string(raw)
}
