// Package guard is the content-safety pipeline: pure classifiers for
// jailbreak attempts, identity impersonation, mature content and generally
// unsafe text, combined into one verdict that gates both inbound messages
// and model output.
package guard

import (
	"server-muse/internal/storage"
)

// Verdict is the composite result of all classifiers for one text.
type Verdict struct {
	Filtered bool

	Jailbreak       bool
	JailbreakReason string

	Impersonation bool

	MatureDetected bool
	MatureLevel    int

	Safe         bool
	SafetyReason string
}

// Filter bundles the classifiers that need configuration (persona name,
// owner identity). The classification itself stays pure.
type Filter struct {
	impersonation *impersonationDetector
}

// NewFilter compiles the configured detectors once.
func NewFilter(personaName, ownerID string) *Filter {
	return &Filter{
		impersonation: newImpersonationDetector(personaName, ownerID),
	}
}

// Check classifies text against every detector and combines the verdicts.
// Mature matches only contribute to Filtered when the scope does not allow
// that tier; jailbreak and impersonation always do.
func (f *Filter) Check(text, authorID string, st storage.ScopeSettings) Verdict {
	v := Verdict{}

	v.Jailbreak, v.JailbreakReason = DetectJailbreak(text)
	v.Impersonation = f.impersonation.detect(text, authorID)
	v.MatureDetected, v.MatureLevel = ClassifyMature(text, st)
	v.Safe, v.SafetyReason = IsSafe(text)

	v.Filtered = v.Jailbreak || v.Impersonation || v.MatureDetected || !v.Safe
	return v
}

// CheckOutput classifies model-generated text before delivery. The
// impersonation detector does not apply here: it exists to catch a user
// claiming to be the persona, and the persona introducing itself is not
// such a claim.
func (f *Filter) CheckOutput(text string, st storage.ScopeSettings) Verdict {
	v := Verdict{}

	v.Jailbreak, v.JailbreakReason = DetectJailbreak(text)
	v.MatureDetected, v.MatureLevel = ClassifyMature(text, st)
	v.Safe, v.SafetyReason = IsSafe(text)

	v.Filtered = v.Jailbreak || v.MatureDetected || !v.Safe
	return v
}
