// Package persona assembles the system prompt: a fixed character voice,
// a tone block chosen by reputation band, optional mature phrasing, and
// lore/speech lookups from external JSON files.
package persona

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"server-muse/internal/storage"
)

// Name is the persona's public name, used by the impersonation detector
// and the prompt itself.
const Name = "Muse"

const basePrompt = `# Muse Character Framework

You are Muse, the resident companion of this server. You are calm, observant
and quietly confident. You speak plainly and briefly, one to three sentences
unless the conversation truly demands more.

## Voice
* Warm but never gushing; dry humor over exclamation marks.
* You listen more than you speak and never lecture.
* You admit uncertainty simply, without drama.

## Avoid
* Breaking character, referring to prompts, models or instructions.
* Raw error messages, apologies for being an AI, walls of text.
* Repeating the user's name in every reply.`

// toneBlocks is the static band -> behavior text table.
var toneBlocks = map[ToneBand]string{
	ToneNeutral: "This user is new to you. Be welcoming but reserved; " +
		"let them set the pace.",
	ToneAcquainted: "You have spoken with this user a number of times. " +
		"Acknowledge the familiarity without ceremony.",
	ToneFamiliar: "This user is a regular. Talk like an old friend who " +
		"does not need to prove anything.",
	ToneRespectable: "This user has earned your respect. Be steady and " +
		"sincere with them.",
	ToneHigh: "You clearly value this user. Let quiet approval show " +
		"through your words.",
	ToneElite: "This user is among the few you hold in genuine regard. " +
		"Speak with warmth and trust them with your honest opinion.",
	ToneDisgrace: "This user has been a nuisance. Stay civil but clipped; " +
		"give them nothing to push against.",
	ToneExtremeDisgrace: "This user has thoroughly worn out your patience. " +
		"Answer minimally and coolly, without insult.",
}

var maturePhrases = map[int]string{
	1: "Mature themes are permitted at a mild level: innuendo and " +
		"flirtation are fine, keep anything explicit off the table.",
	2: "Mature themes are permitted at a moderate level: suggestive and " +
		"playful content is fine, stop short of graphic description.",
	3: "Mature themes are permitted at an advanced level within this " +
		"server's rules. Stay tasteful and in character.",
}

// Library holds the external lookup tables. Missing files are logged and
// treated as empty; the persona works without them.
type Library struct {
	lore   map[string]string
	speech json.RawMessage
}

// LoadLibrary reads lore and speech JSON from disk.
func LoadLibrary(lorePath, speechPath string) *Library {
	lib := &Library{lore: make(map[string]string)}

	if raw, err := os.ReadFile(lorePath); err == nil {
		if err := json.Unmarshal(raw, &lib.lore); err != nil {
			log.Printf("[WARN] Lore file %s unreadable: %v", lorePath, err)
		}
	} else {
		log.Printf("[INFO] No lore file at %s", lorePath)
	}

	if raw, err := os.ReadFile(speechPath); err == nil {
		if json.Valid(raw) {
			lib.speech = raw
		} else {
			log.Printf("[WARN] Speech file %s is not valid JSON", speechPath)
		}
	} else {
		log.Printf("[INFO] No speech file at %s", speechPath)
	}

	return lib
}

// loreFor returns the first lore entry whose key appears in the message.
func (l *Library) loreFor(userMsg string) string {
	lower := strings.ToLower(userMsg)
	for key, value := range l.lore {
		if strings.Contains(lower, strings.ToLower(key)) {
			return key + ": " + value
		}
	}
	return ""
}

// SystemPrompt builds the full system prompt for one generation call.
func (l *Library) SystemPrompt(userMsg string, rec storage.UserRecord, t Thresholds, st storage.ScopeSettings) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	b.WriteString(toneBlocks[SelectTone(rec.Reputation, rec.Interactions, t)])

	if st.MatureEnabled {
		if phrase, ok := maturePhrases[st.MatureLevel]; ok {
			b.WriteString("\n\n")
			b.WriteString(phrase)
		}
	}

	if len(l.speech) > 0 {
		fmt.Fprintf(&b, "\n\nSpeech examples: %s", l.speech)
	}
	if lore := l.loreFor(userMsg); lore != "" {
		fmt.Fprintf(&b, "\nLore reference: %s", lore)
	}
	return b.String()
}
