package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Message is one chat turn sent to the generation API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries per-call generation parameters.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Provider generates a reply for a prompt. Implementations map transport
// failures onto the error taxonomy below.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Failure taxonomy. The admission engine turns these into persona-voiced
// fallback lines; raw errors never reach the end user.
var (
	ErrTimeout     = errors.New("generation timed out")
	ErrUnavailable = errors.New("generation API unavailable")
	ErrMalformed   = errors.New("generation API returned malformed response")
)

// RateLimitError carries the server's cooldown hint from a 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("generation API rate limited, retry after %v", e.RetryAfter)
}
