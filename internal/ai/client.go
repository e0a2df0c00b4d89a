package ai

import (
	"context"
	"errors"
	"log"
	"time"

	"server-muse/pkg/retrylimit"

	"golang.org/x/time/rate"
)

// Client is the paced, retrying wrapper every generation call funnels
// through. Pacing is process-wide: one limiter regardless of how many
// messages are in flight. The limiter is never held while other locks are
// taken — callers must not call Generate under the relations or presence
// locks.
type Client struct {
	provider    Provider
	lim         *retrylimit.AdaptiveLimiter
	timeout     time.Duration
	maxRetries  int
	maxTokens   int
	temperature float64
}

// ClientOptions tune the wrapper; zero values fall back to defaults.
type ClientOptions struct {
	MinInterval time.Duration // minimum spacing between calls
	Timeout     time.Duration // per-call deadline
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

func NewClient(p Provider, opts ClientOptions) *Client {
	if opts.MinInterval <= 0 {
		opts.MinInterval = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 100
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.5
	}

	// Steady-state rate is one call per MinInterval; backoff halves it,
	// sustained success creeps back up to twice the floor.
	floor := rate.Limit(float64(time.Second) / float64(opts.MinInterval))
	lim := retrylimit.NewAdaptiveLimiter(floor, floor/4, floor*2, floor/10, 0.5)

	return &Client{
		provider:    p,
		lim:         lim,
		timeout:     opts.Timeout,
		maxRetries:  opts.MaxRetries,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

// Generate runs one paced generation with retries and cleanup. The
// returned text has acknowledgment preambles stripped; on terminal failure
// the error is one of the package taxonomy values.
func (c *Client) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	req := Request{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var reply string
	cfg := retrylimit.DefaultConfig()
	cfg.MaxAttempts = c.maxRetries
	cfg.OnRetry = func(attempt int, err error) {
		log.Printf("[AI] Generation attempt %d failed: %v", attempt, err)
	}

	err := retrylimit.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		text, err := c.provider.Generate(callCtx, req)
		if err != nil {
			return classify(err)
		}
		reply = text
		return nil
	}, c.lim, cfg)
	if err != nil {
		return "", unwrapTerminal(err)
	}

	cleaned := CleanReply(StripAcknowledgments(reply))
	if cleaned == "" {
		return "", ErrMalformed
	}
	return cleaned, nil
}

// classify maps provider errors onto retry behavior: rate limits honor
// the server's hint, malformed responses stop immediately, everything
// else follows the backoff schedule.
func classify(err error) error {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return &retrylimit.RetryAfterError{Err: err, Delay: rl.RetryAfter}
	}
	if errors.Is(err, ErrMalformed) {
		return &retrylimit.FatalError{Err: err}
	}
	return err
}

// unwrapTerminal reduces a retry-loop error to the taxonomy value callers
// branch on for fallback selection.
func unwrapTerminal(err error) error {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrMalformed):
		return ErrMalformed
	default:
		var rl *RateLimitError
		if errors.As(err, &rl) {
			return err
		}
		return ErrUnavailable
	}
}

// FallbackLine returns the persona-voiced reply for a terminal generation
// failure. Never empty, never a raw error.
func FallbackLine(err error) string {
	var rl *RateLimitError
	switch {
	case errors.Is(err, ErrTimeout):
		return "Hm. My thought wandered off mid-sentence. Ask me again."
	case errors.As(err, &rl):
		return "Too many voices at once. Give me a moment to breathe."
	case errors.Is(err, ErrMalformed):
		return "I lost the words somewhere between thoughts."
	default:
		return "The line went quiet on my end. Try me again shortly."
	}
}
