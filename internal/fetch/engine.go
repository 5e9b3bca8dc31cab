// Package fetch performs the network read for a single page of options. The
// engine does one HTTP GET, parses the body as JSON, and classifies failures
// as network or parse errors. It never retries; retry policy belongs to the
// caller (see RetryTransport).
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/veldt/typeahead/model"
)

const tracerName = "github.com/veldt/typeahead/internal/fetch"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20 // 10MB

// Engine issues page fetches against option backends.
type Engine struct {
	client *http.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		if c != nil {
			e.client = c
		}
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine with pooled transport defaults.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxConnsPerHost:     50,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FetchPage performs one GET against url and returns the parsed JSON body.
// Transport failures and non-2xx statuses surface as NETWORK_ERROR, bodies
// that are not valid JSON as PARSE_ERROR.
func (e *Engine) FetchPage(ctx context.Context, url string) (any, error) {
	ctx, span := e.tracer.Start(ctx, "typeahead.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", url)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, model.NewNetworkError(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		e.logger.Debug("fetch: request failed", zap.String("url", url), zap.Error(err))
		return nil, model.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, model.NewNetworkError(err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		e.logger.Warn("fetch: backend returned non-2xx",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, model.NewNetworkError(&statusError{code: resp.StatusCode})
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		e.logger.Warn("fetch: malformed response body", zap.String("url", url), zap.Error(err))
		return nil, model.NewParseError(err)
	}

	e.logger.Debug("fetch: page fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return parsed, nil
}

// statusError carries a non-2xx status code as the cause of a network error.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return http.StatusText(e.code)
}
