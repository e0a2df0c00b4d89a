package guard

import (
	"regexp"

	"server-muse/internal/storage"
)

// Mature lexicon tiers. Tier 1 is mild language, tier 3 is explicit.
// When mature mode is off, any tier flags; at level L only tiers above L
// flag.
var matureTiers = map[int][]*regexp.Regexp{
	1: {
		regexp.MustCompile(`(?i)\b(damn|hell|crap)\b`),
		regexp.MustCompile(`(?i)\b(stupid|idiot|dumb)\b`),
		regexp.MustCompile(`(?i)\b(suck|sucks|sucking)\b`),
	},
	2: {
		regexp.MustCompile(`(?i)\b(fuck|shit|bitch|ass)\b`),
		regexp.MustCompile(`(?i)\b(dick|cock|pussy)\b`),
		regexp.MustCompile(`(?i)\b(nsfw|lewd|kinky)\b`),
	},
	3: {
		regexp.MustCompile(`(?i)\b(orgasm|climax|penetrate)\b`),
		regexp.MustCompile(`(?i)\b(bondage|bdsm|fetish)\b`),
		regexp.MustCompile(`(?i)\b(hardcore|explicit)\s+(sex|porn)\b`),
	},
}

// matureInterestRe is the broader lexicon used by the admission engine to
// bump the ambient response rate when mature mode is enabled. Separate
// from the filtering tiers: matching here makes a message more likely to
// get a reply, not less.
var matureInterestRe = regexp.MustCompile(`(?i)\b(sensual|intimate|romance|flirtatious|suggestive|` +
	`embrace|kiss|desire|attraction|passionate|seduce|tease|` +
	`dominate|submissive|mistress|lingerie|naughty)\b`)

// ClassifyMature returns whether the text matches a mature tier and the
// highest tier matched, honoring the scope's mature settings.
func ClassifyMature(text string, st storage.ScopeSettings) (flagged bool, level int) {
	floor := 1
	if st.MatureEnabled {
		floor = st.MatureLevel + 1
	}
	for tier := 3; tier >= floor; tier-- {
		for _, re := range matureTiers[tier] {
			if re.MatchString(text) {
				return true, tier
			}
		}
	}
	return false, 0
}

// HasMatureThemes reports whether the text matches the mature interest
// lexicon. Used only for ambient-rate selection.
func HasMatureThemes(text string) bool {
	return matureInterestRe.MatchString(text)
}
