// Package transport provides an effect.Transport over resty.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/on-the-ground/effectdeps/effect"
	"golang.org/x/time/rate"
)

var _ effect.Transport = (*Resty)(nil)

// Config configures the HTTP client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
	// RateLimit is the sustained requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
}

// Resty is an effect.Transport backed by a resty client.
type Resty struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewResty builds a transport from cfg.
func NewResty(cfg Config) *Resty {
	client := resty.New()
	if cfg.BaseURL != "" {
		client.SetBaseURL(cfg.BaseURL)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if len(cfg.Headers) > 0 {
		client.SetHeaders(cfg.Headers)
	}

	r := &Resty{client: client}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return r
}

func (r *Resty) Get(ctx context.Context, url string, opts ...effect.RequestOption) (*effect.Response, error) {
	return r.do(ctx, http.MethodGet, url, nil, opts)
}

func (r *Resty) Post(ctx context.Context, url string, body any, opts ...effect.RequestOption) (*effect.Response, error) {
	return r.do(ctx, http.MethodPost, url, body, opts)
}

func (r *Resty) Put(ctx context.Context, url string, body any, opts ...effect.RequestOption) (*effect.Response, error) {
	return r.do(ctx, http.MethodPut, url, body, opts)
}

func (r *Resty) Delete(ctx context.Context, url string, opts ...effect.RequestOption) (*effect.Response, error) {
	return r.do(ctx, http.MethodDelete, url, nil, opts)
}

func (r *Resty) do(ctx context.Context, method, url string, body any, opts []effect.RequestOption) (*effect.Response, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	o := effect.ApplyRequestOptions(opts...)
	req := r.client.R().SetContext(ctx)
	for name, values := range o.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if len(o.Query) > 0 {
		req.SetQueryParams(o.Query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return &effect.Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
