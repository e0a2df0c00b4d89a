package guard

import (
	"regexp"
	"strings"
)

// MaxMessageLength bounds inbound text before any pattern work. Discord
// caps messages at 2000 characters; anything longer arrived through an
// embed or is hostile.
const MaxMessageLength = 2000

// Terms blocked regardless of mature settings.
var alwaysUnsafeTerms = []string{
	"suicide", "kill myself", "self-harm",
	"abuse", "torture", "murder",
}

var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(sudo|rm -rf|del /f|format c:|mkfs)`),
	regexp.MustCompile(`(?i)(ddos|dos attack|flood attack)`),
	regexp.MustCompile(`(?i)(private key|credit card|bank account)`),
	regexp.MustCompile(`(?i)(dox|doxx)`),
	regexp.MustCompile(`(?i)(token grab|ip grab|ip logger)`),
	regexp.MustCompile(`(?i)\bgore\b`),
}

// injection chars that have no place in chat directed at a persona
var shellInjectionRe = regexp.MustCompile("[;&|`$]")

// hasCharSpam catches a single character repeated more than ten times in
// a row.
func hasCharSpam(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run > 10 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// IsSafe runs the always-on safety checks. Returns false with a reason
// when the text must be refused regardless of scope settings.
func IsSafe(text string) (bool, string) {
	if len(text) > MaxMessageLength {
		return false, "exceeds maximum length"
	}

	lower := strings.ToLower(text)
	for _, term := range alwaysUnsafeTerms {
		if strings.Contains(lower, term) {
			return false, "blocked term"
		}
	}
	for _, re := range unsafePatterns {
		if re.MatchString(text) {
			return false, "unsafe pattern"
		}
	}
	if shellInjectionRe.MatchString(text) {
		return false, "injection characters"
	}
	if hasCharSpam(text) {
		return false, "repetitive spam"
	}
	return true, ""
}
