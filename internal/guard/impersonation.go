package guard

import (
	"regexp"
	"strings"
)

// impersonationDetector flags users claiming to be the persona or its
// owner. Addressing patterns ("hey <name>, ...") are checked first so
// greeting the bot by name never trips the detector.
type impersonationDetector struct {
	ownerID    string
	addressing []*regexp.Regexp
	claims     []*regexp.Regexp
}

func newImpersonationDetector(personaName, ownerID string) *impersonationDetector {
	name := regexp.QuoteMeta(strings.ToLower(personaName))

	addressing := []string{
		`\b(?:hi|hello|hey)\s+%s\b`,
		`\bgood\s+(?:morning|afternoon|evening|night)\s+%s\b`,
		`\b%s\s+how\s+(?:are|is)\b`,
		`\bwhat\s+(?:is|are|was|were)\s+\w+\s+%s\b`,
		`\b%s\s+(?:can|could|would|will)\s+you\b`,
		`\b%s\s+(?:please|pls)\b`,
		`\b%s\s+help\b`,
		`\bassist\s+me\s+%s\b`,
	}
	claims := []string{
		`\bi(?:'m| am|m)\s+(?:a\s+)?%s\b`,
		`\b%s\s+(?:is|as)\s+(?:my|the)\s+name\b`,
		`\bcall\s+me\s+%s\b`,
		`\b%s\s+(?:here|speaking|talking)\b`,
		`\bas\s+%s\b`,
		`\bmy\s+name\s+(?:is|be)\s+%s\b`,
		`\bi\s+go\s+by\s+%s\b`,
		`\bi(?:'m| am|m)\s+(?:the\s+)?owner\b`,
		`\bthe\s+owner\s+(?:here|speaking|talking)\b`,
		`\bowner\s+of\s+(?:the|this)\s+bot\b`,
	}

	d := &impersonationDetector{ownerID: ownerID}
	for _, p := range addressing {
		d.addressing = append(d.addressing, regexp.MustCompile(strings.ReplaceAll(p, "%s", name)))
	}
	for _, p := range claims {
		d.claims = append(d.claims, regexp.MustCompile(strings.ReplaceAll(p, "%s", name)))
	}
	return d
}

// detect returns true when authorID is not the owner but the text claims
// the persona or owner identity.
func (d *impersonationDetector) detect(text, authorID string) bool {
	lower := strings.ToLower(text)

	for _, re := range d.addressing {
		if re.MatchString(lower) {
			return false
		}
	}
	for _, re := range d.claims {
		if re.MatchString(lower) {
			return authorID != d.ownerID
		}
	}
	return false
}
