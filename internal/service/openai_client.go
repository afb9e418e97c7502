package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// OpenAIConfig configures the OpenAI-compatible embeddings and chat clients.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	RPS     float64 // outbound requests per second
	Timeout time.Duration
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	openAIMaxRetries     = 4
)

// openAIClient is the transport shared by the embedder and the LLM:
// a resty client, a token-bucket limiter and a retry policy.
type openAIClient struct {
	http         *resty.Client
	limiter      *rate.Limiter
	model        string
	maxRetries   uint64
	retryInitial time.Duration
}

func newOpenAIClient(cfg OpenAIConfig) *openAIClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}

	c := resty.New().
		SetBaseURL(base).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	// A client-wide timeout would also bound streamed bodies, so only set it when asked.
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}

	return &openAIClient{
		http:         c,
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		model:        cfg.Model,
		maxRetries:   openAIMaxRetries,
		retryInitial: 200 * time.Millisecond,
	}
}

// statusError is a non-2xx answer from the API.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d: %s", e.Status, e.Body)
}

// retryable reports whether a status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// do runs send under the limiter with exponential backoff. send reports
// transport errors as err and HTTP failures via its returned response.
// 4xx answers other than 429 fail immediately.
func (c *openAIClient) do(ctx context.Context, send func() (*resty.Response, error)) (*resty.Response, error) {
	var resp *resty.Response
	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		r, err := send()
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if r.StatusCode() >= http.StatusMultipleChoices {
			serr := &statusError{Status: r.StatusCode(), Body: truncate(errorBody(r), 512)}
			if retryable(r.StatusCode()) {
				return serr
			}
			return backoff.Permanent(serr)
		}
		resp = r
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryInitial
	exp.Multiplier = 2
	exp.MaxInterval = 5 * time.Second
	exp.Reset()

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(exp, c.maxRetries), ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

// errorBody reads the response payload whether or not resty parsed it.
func errorBody(r *resty.Response) string {
	if raw := r.RawBody(); raw != nil && len(r.Body()) == 0 {
		defer raw.Close()
		buf := make([]byte, 512)
		n, _ := raw.Read(buf)
		return string(buf[:n])
	}
	return r.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
