// Package catalog fetches the product list from the catalog API.
//
// The response body is never trusted: it is decoded into an untyped value,
// checked against the product list shape and only then narrowed to typed
// values. A body that does not conform degrades to an empty list. Transport
// failures are reported to the caller as *TransportError.
package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/apidoor-catalog/internal/domain/product"
	"github.com/xenking/apidoor-catalog/pkg/jsonvalue"
)

const (
	// DefaultTimeout bounds a products request when Config.Timeout is zero.
	DefaultTimeout = 2 * time.Second

	maxBodySize         = 8 << 20
	instrumentationName = "github.com/xenking/apidoor-catalog/internal/catalog"
)

// Config describes where the catalog lives.
type Config struct {
	// BaseURL is the absolute http(s) URL the products path is resolved
	// against, e.g. http://localhost:3000 or https://example.com/api.
	BaseURL string
	// Timeout bounds the whole request including reading the body.
	Timeout time.Duration
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient     *http.Client
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithHTTPClient sets the HTTP client used for requests. The client's
// transport is used as is and is not instrumented.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// Client fetches product lists. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	http        *http.Client
	productsURL string
	timeout     time.Duration

	tracer    trace.Tracer
	fallbacks metric.Int64Counter
}

// New creates a Client for the catalog at cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, errors.Errorf("base URL %q must be an absolute http(s) URL", cfg.BaseURL)
	}

	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(o.tracerProvider),
				otelhttp.WithMeterProvider(o.meterProvider),
			),
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	fallbacks, err := o.meterProvider.Meter(instrumentationName).Int64Counter("catalog.fetch.fallbacks",
		metric.WithDescription("Product list responses replaced by the empty list"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create fallback counter")
	}

	return &Client{
		http:        httpClient,
		productsURL: base.JoinPath("products").String(),
		timeout:     timeout,
		tracer:      o.tracerProvider.Tracer(instrumentationName),
		fallbacks:   fallbacks,
	}, nil
}

// FetchProducts requests the product list.
//
// The returned list is always well formed. If the body does not have the
// product list shape the empty list is returned with a nil error. A non-nil
// error is always a *TransportError and comes with the empty list.
func (c *Client) FetchProducts(ctx context.Context) (product.ProductList, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.FetchProducts")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return product.Empty(), err
	}

	v, err := jsonvalue.Decode(body)
	if err != nil {
		return c.fallback(ctx, span, "malformed_json", zap.Error(err)), nil
	}
	list, ok := product.AsProductList(v)
	if !ok {
		return c.fallback(ctx, span, "shape_mismatch"), nil
	}

	span.SetAttributes(
		attribute.Int("catalog.products.count", len(list.Products)),
		attribute.Bool("catalog.fallback", false),
	)
	zctx.From(ctx).Debug("Fetched products", zap.Int("count", len(list.Products)))
	return list, nil
}

// get performs the request and returns the raw body of a 2xx response.
func (c *Client) get(ctx context.Context) ([]byte, error) {
	const op = "get products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productsURL, http.NoBody)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &TransportError{Op: "read products body", Err: err}
	}
	if len(body) > maxBodySize {
		// Truncated input can never decode; let it take the fallback path.
		return body[:0], nil
	}
	return body, nil
}

func (c *Client) fallback(ctx context.Context, span trace.Span, reason string, fields ...zap.Field) product.ProductList {
	span.SetAttributes(
		attribute.Int("catalog.products.count", 0),
		attribute.Bool("catalog.fallback", true),
		attribute.String("catalog.fallback.reason", reason),
	)
	c.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))

	fields = append(fields, zap.String("reason", reason), zap.String("url", c.productsURL))
	zctx.From(ctx).Warn("Product list response rejected, using empty list", fields...)
	return product.Empty()
}
