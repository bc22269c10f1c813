// Package fakestore implements product.Source on top of the public demo
// store REST API.
package fakestore

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	instrumentationName = "github.com/xenking/storefront/internal/storage/fakestore"

	// maxBodySize bounds how much of an upstream response is read.
	maxBodySize = 8 << 20
)

// DefaultURL is the women's clothing category of the demo store.
const DefaultURL = "https://fakestoreapi.com/products/category/women's%20clothing"

// ErrUnexpectedStatus is returned when the upstream answers with a non-2xx
// status code.
var ErrUnexpectedStatus = errors.New("unexpected status code")

var _ product.Source = (*Client)(nil)

// Config holds the upstream endpoint settings.
type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Options holds optional dependencies of the Client.
type Options struct {
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport      http.RoundTripper
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (o *Options) setDefaults() {
	if o.Transport == nil {
		o.Transport = http.DefaultTransport
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}
}

// Client fetches the product catalog over HTTP.
type Client struct {
	http      *http.Client
	url       string
	userAgent string
	policy    *bluemonday.Policy

	tracer   trace.Tracer
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

// NewClient validates cfg and returns a Client for it.
func NewClient(cfg Config, opts Options) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parse catalog url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Errorf("catalog url %q must be an absolute http(s) url", cfg.URL)
	}
	opts.setDefaults()

	meter := opts.MeterProvider.Meter(instrumentationName)
	duration, err := meter.Float64Histogram("fakestore.list.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of catalog fetches"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}
	failures, err := meter.Int64Counter("fakestore.list.failures",
		metric.WithDescription("Number of failed catalog fetches"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create failures counter")
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: otelhttp.NewTransport(opts.Transport,
				otelhttp.WithTracerProvider(opts.TracerProvider),
				otelhttp.WithMeterProvider(opts.MeterProvider),
			),
		},
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		policy:    bluemonday.StrictPolicy(),
		tracer:    opts.TracerProvider.Tracer(instrumentationName),
		duration:  duration,
		failures:  failures,
	}, nil
}

// URL returns the configured catalog endpoint.
func (c *Client) URL() string {
	return c.url
}

// List fetches and decodes the catalog.
func (c *Client) List(ctx context.Context) (_ []product.Product, rerr error) {
	ctx, span := c.tracer.Start(ctx, "fakestore.List", trace.WithSpanKind(trace.SpanKindClient))
	start := time.Now()
	defer func() {
		c.duration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.Bool("error", rerr != nil)),
		)
		if rerr != nil {
			c.failures.Add(ctx, 1)
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	products, err := decodeProducts(jx.Decode(io.LimitReader(resp.Body, maxBodySize), 4096), c.clean)
	if err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	span.SetAttributes(attribute.Int("fakestore.products", len(products)))
	return products, nil
}

// Ping checks that the catalog endpoint answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.get(ctx)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	return resp.Body.Close()
}

// get performs the catalog request. On success the caller owns the body.
func (c *Client) get(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, errors.Wrapf(ErrUnexpectedStatus, "get catalog: %d", resp.StatusCode)
	}
	return resp, nil
}

// clean strips markup from upstream text. The policy escapes entities, so
// the result is unescaped again before it reaches the templates.
func (c *Client) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}
