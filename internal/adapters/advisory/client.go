package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"darkstore-sim/internal/platform/obs"
)

const systemPrompt = "You are an operations analyst for a quick-commerce dark store network. " +
	"Answer with at most five short, concrete recommendations."

// Upper bound on a server-requested Retry-After wait.
const maxRetryAfter = 30 * time.Second

var (
	ErrEmptyCompletion = errors.New("empty completion")
	ErrBadResponse     = errors.New("malformed completion response")
)

// StatusError is a non-2xx answer from the completion endpoint.
type StatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the endpoint asked us to come back later.
func (e *StatusError) Temporary() bool {
	switch e.Code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// HTTPClient implements AdvisoryClient against an OpenAI-compatible
// chat completions endpoint. It is safe for concurrent use.
type HTTPClient struct {
	session     *http.Client
	apiKey      string
	endpoint    string
	model       string
	maxAttempts int
	backoff     time.Duration
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option { return func(c *HTTPClient) { c.session = hc } }

func WithModel(model string) Option { return func(c *HTTPClient) { c.model = model } }

// WithRetry sets the total number of attempts (at least one) and the
// initial backoff, which doubles after each retry.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *HTTPClient) {
		c.maxAttempts = max(1, attempts)
		c.backoff = max(0, backoff)
	}
}

func NewHTTPClient(baseURL, apiKey string, opts ...Option) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("advisory base url is empty")
	}

	c := &HTTPClient{
		session:     &http.Client{Timeout: 30 * time.Second},
		apiKey:      apiKey,
		endpoint:    baseURL + "/v1/chat/completions",
		model:       "gpt-4o-mini",
		maxAttempts: 3,
		backoff:     500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = http.DefaultClient
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the first
// choice. Rate limiting, 5xx answers and network failures are retried;
// a 429 waits for the server's Retry-After when one is given. Malformed
// or empty completions are returned at once.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (_ string, err error) {
	defer obs.Time(ctx, "advisory.Complete")(&err)

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("advisory complete: prompt must be non-empty")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("advisory complete: marshal request: %w", err)
	}

	backoff := c.backoff
	for attempt := 1; ; attempt++ {
		text, err := c.complete(ctx, payload)
		if err == nil {
			return text, nil
		}
		if attempt >= c.maxAttempts || !retryable(err) {
			return "", fmt.Errorf("advisory complete: attempt %d: %w", attempt, err)
		}

		wait := backoff
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			wait = se.RetryAfter
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("advisory complete: %w", ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}
}

// complete performs one round trip and extracts the first choice.
func (c *HTTPClient) complete(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrEmptyCompletion)
	}
	text := strings.TrimSpace(cr.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// parseRetryAfter accepts delay-seconds or an HTTP date. Unparseable and
// past values yield zero; the result is capped at maxRetryAfter.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(v); err == nil {
		d = t.Sub(now)
	}

	if d <= 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}
