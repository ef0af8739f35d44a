package http

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultRetryMax     = 2
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
)

// TransportOptions tune the outbound transport.
type TransportOptions struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Insecure     bool
}

type TransportOption func(*TransportOptions)

func WithTimeout(d time.Duration) TransportOption {
	return func(o *TransportOptions) { o.Timeout = d }
}

func WithRetryMax(n int) TransportOption {
	return func(o *TransportOptions) { o.RetryMax = n }
}

func WithRetryWait(min, max time.Duration) TransportOption {
	return func(o *TransportOptions) {
		o.RetryWaitMin = min
		o.RetryWaitMax = max
	}
}

func WithInsecure(insecure bool) TransportOption {
	return func(o *TransportOptions) { o.Insecure = insecure }
}

// GetHTTPTransport returns a pooled transport for registry traffic.
func GetHTTPTransport(opts ...TransportOption) *http.Transport {
	o := resolve(opts)
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: o.Insecure}, //nolint:gosec
	}
}

// NewStandardClient builds an *http.Client backed by go-retryablehttp.
// Only connection-level failures are retried: any response, whatever its
// status, is handed back to the caller after a single exchange.
func NewStandardClient(opts ...TransportOption) *http.Client {
	o := resolve(opts)

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Transport: GetHTTPTransport(opts...),
		Timeout:   o.Timeout,
	}
	rc.RetryMax = o.RetryMax
	rc.RetryWaitMin = o.RetryWaitMin
	rc.RetryWaitMax = o.RetryWaitMax
	rc.CheckRetry = retryOnConnectionError
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger: log.With().Str("component", "http").Logger()}

	return rc.StandardClient()
}

func retryOnConnectionError(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil, nil
}

func resolve(opts []TransportOption) TransportOptions {
	o := TransportOptions{
		Timeout:      defaultTimeout,
		RetryMax:     defaultRetryMax,
		RetryWaitMin: defaultRetryWaitMin,
		RetryWaitMax: defaultRetryWaitMax,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// leveledLogger routes retryablehttp's chatter into zerolog.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.event(l.logger.Error(), msg, kv) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.event(l.logger.Warn(), msg, kv) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.event(l.logger.Debug(), msg, kv) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.event(l.logger.Trace(), msg, kv) }

func (l leveledLogger) event(e *zerolog.Event, msg string, kv []interface{}) {
	e.Fields(kv).Msg(msg)
}
