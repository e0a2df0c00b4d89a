package ai

import (
	"regexp"
	"strings"
)

// Preambles models sometimes prepend when given behavioral instructions.
var acknowledgments = []string{
	"As Muse",
	"I understand",
	"Understood",
	"Acknowledged",
}

// StripAcknowledgments removes known acknowledgment preambles from the
// front of a response, repeatedly, then trims leading punctuation left
// behind.
func StripAcknowledgments(text string) string {
	text = strings.TrimSpace(text)
	for changed := true; changed; {
		changed = false
		for _, ack := range acknowledgments {
			if strings.HasPrefix(text, ack) {
				text = strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(text, ack), ".,:;- "))
				changed = true
			}
		}
	}
	return text
}

var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanReply normalizes a model reply: drops hidden reasoning blocks,
// unwraps a fully-quoted reply, and bounds the length for the gateway.
func CleanReply(reply string) string {
	reply = thinkBlockRe.ReplaceAllString(reply, "")
	reply = strings.TrimSpace(reply)

	if len(reply) >= 2 {
		quotes := []struct{ open, close string }{
			{`"`, `"`}, {`'`, `'`}, {"“", "”"}, {"‘", "’"},
		}
		for _, q := range quotes {
			if strings.HasPrefix(reply, q.open) && strings.HasSuffix(reply, q.close) {
				reply = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(reply, q.open), q.close))
				break
			}
		}
	}

	if len(reply) > 1800 {
		reply = reply[:1800] + "\n\n[truncated]"
	}
	return reply
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
