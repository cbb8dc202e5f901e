// Package transport builds the HTTP clients shared by all API integrations.
// Timeouts and client-side rate limiting live here, not in the pipeline core.
package transport

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/CruGlobal/datadog-custom-costs/internal/config"
)

// Options configure a single API client
type Options struct {
	// Timeout bounds each request end to end
	Timeout time.Duration

	// RateLimit is the request rate per second; zero disables throttling
	RateLimit float64

	// RateBurst is the limiter burst size
	RateBurst int

	// Token, when set, is sent as a bearer Authorization header
	Token string
}

// FromConfig maps the shared HTTP settings onto client options
func FromConfig(cfg config.HTTPConfig, token string) Options {
	return Options{
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Token:     token,
	}
}

// throttled delays each request until the limiter admits it. Wait respects
// the request context, so cancellation interrupts a queued request.
type throttled struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttled) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewClient builds an *http.Client from options. Bearer credentials ride on
// an oauth2 static token source so every request is stamped uniformly.
func NewClient(opts Options) *http.Client {
	base := http.DefaultTransport
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		base = &throttled{
			base:    base,
			limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst),
		}
	}

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: base,
	}

	if opts.Token != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, source)
		client.Timeout = opts.Timeout
	}

	return client
}
