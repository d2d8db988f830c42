package effect

import (
	"context"
	"net/http"
	"time"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Store is the persistent relational store handle.
type Store interface {
	// Exec runs a command and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// Query runs a query and returns every row it produced.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
}

// Cache is the key/value cache handle.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the keys and returns how many were present.
	Delete(ctx context.Context, keys ...string) (int64, error)
}

// Logger is the log sink handle. Details are alternating key/value pairs.
type Logger interface {
	Info(msg string, details ...any)
	Warn(msg string, details ...any)
	Error(msg string, details ...any)
	Debug(msg string, details ...any)
}

// Response is the outcome of an outbound request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestOptions carries per-request settings for a Transport.
type RequestOptions struct {
	Header http.Header
	Query  map[string]string
}

// RequestOption mutates RequestOptions.
type RequestOption func(*RequestOptions)

// WithHeader adds a request header.
func WithHeader(name, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Add(name, value)
	}
}

// WithQuery sets a query parameter.
func WithQuery(name, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Query == nil {
			o.Query = make(map[string]string)
		}
		o.Query[name] = value
	}
}

// ApplyRequestOptions folds opts into a fresh RequestOptions.
func ApplyRequestOptions(opts ...RequestOption) RequestOptions {
	var o RequestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Transport is the outbound HTTP handle.
type Transport interface {
	Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error)
	Post(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error)
	Put(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error)
	Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error)
}
