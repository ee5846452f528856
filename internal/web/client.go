package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/aio"
	"github.com/rs/zerolog/log"
)

// Config Transport settings. Delay is waited before the first attempt, RetryDelay before every retry.
// Only responses with one of the Retrieables status codes are retried. A Retry-After header of such a
// response extends the retry delay up to MaxRetryDelay.
type Config struct {
	Delay         time.Duration `yaml:"delay" toml:"delay"`
	Timeout       time.Duration `yaml:"timeout" toml:"timeout"`
	Retries       int32         `yaml:"retries" toml:"retries"`
	Retrieables   []int         `yaml:"retrieables" toml:"retrieables"`
	RetryDelay    time.Duration `yaml:"retryDelay" toml:"retryDelay"`
	MaxRetryDelay time.Duration `yaml:"maxRetryDelay" toml:"maxRetryDelay"`
}

// retryDelay returns the time to wait before the next attempt after err.
func (c Config) retryDelay(err error) time.Duration {
	delay := c.RetryDelay

	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > delay {
		delay = apiErr.RetryAfter
		if c.MaxRetryDelay > 0 {
			delay = min(delay, c.MaxRetryDelay)
		}
	}

	return delay
}

type Response struct {
	Body     io.ReadCloser
	MimeType MimeType
}

// GetOptions Request headers and the status codes treated as success.
type GetOptions struct {
	Header      map[string]string
	StatusCodes []int
}

// NewGetOpts expects 200 without additional headers.
func NewGetOpts() GetOptions {
	return GetOptions{
		Header:      make(map[string]string),
		StatusCodes: []int{http.StatusOK},
	}
}

func (o GetOptions) WithHeader(k, v string) GetOptions {
	o.Header[k] = v

	return o
}

func (o GetOptions) WithExpectedCodes(statusCode ...int) GetOptions {
	o.StatusCodes = statusCode

	return o
}

type Client interface {
	Get(ctx context.Context, url string, opts GetOptions) (*Response, error)
}

// NewClient creates a client on top of the given http client.
// If the http client has no timeout the timeout of the config is used.
func NewClient(cfg Config, client *http.Client) Client {
	if client == nil {
		panic("missing net/http client")
	}

	if client.Timeout == 0 && cfg.Timeout > 0 {
		withTimeout := *client
		withTimeout.Timeout = cfg.Timeout
		client = &withTimeout
	}

	return &httpClient{
		cfg:    cfg,
		client: client,
	}
}

type httpClient struct {
	cfg    Config
	client *http.Client
}

func (c *httpClient) Get(ctx context.Context, url string, opts GetOptions) (*Response, error) {
	return WithRetry(ctx, c.cfg, func() (*http.Response, error) {
		return c.do(ctx, url, opts)
	})
}

func (c *httpClient) do(ctx context.Context, url string, opts GetOptions) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed for url %s, %w", url, err)
	}

	req.Header.Set(HeaderUserAgent, DefaultUserAgent)
	for k, v := range opts.Header {
		req.Header.Set(k, v)
	}

	log.Debug().Str("url", url).Msg("sending request")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request execution failed for url %s, %w", url, err)
	}

	if !slices.Contains(opts.StatusCodes, resp.StatusCode) {
		defer aio.Close(resp.Body)

		return nil, NewHTTPErr(url, resp)
	}

	return resp, nil
}

// WithRetry executes exec until it succeeds, fails with a status code that is not retrieable or
// the retries are exhausted.
func WithRetry(ctx context.Context, cfg Config, exec func() (*http.Response, error)) (*Response, error) {
	wait := time.NewTimer(cfg.Delay)
	defer wait.Stop()

	for attempt := int32(0); ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stop execution due to cancelled context, %w", ctx.Err())
		case <-wait.C:
		}

		resp, err := exec()
		if err == nil {
			return &Response{
				Body:     resp.Body,
				MimeType: NewMimeType(resp.Header.Get("content-type")),
			}, nil
		}
		if resp != nil {
			aio.Close(resp.Body)
		}

		if !IsStatusCode(err, cfg.Retrieables...) || attempt >= cfg.Retries {
			return nil, err
		}

		delay := cfg.retryDelay(err)
		log.Info().Err(err).Dur("delay", delay).Msgf("retry request, attempt %d of %d", attempt+1, cfg.Retries)
		wait.Reset(delay)
	}
}
