// Package brain is the response-admission engine: it decides, for every
// incoming message, whether the bot answers and to whom, then drives the
// prompt build, the generation call and the reputation update.
package brain

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"server-muse/internal/ai"
	"server-muse/internal/guard"
	"server-muse/internal/persona"
	"server-muse/internal/presence"
	"server-muse/internal/relations"
	"server-muse/internal/storage"
)

// Fixed reply lines. Persona-voiced; the user never sees raw errors.
const (
	refusalLine  = "Your words betray you. Try again with more grace."
	safeFallback = "Let's talk about something else."

	rewriteInstruction = "Your previous draft violated the content rules " +
		"of this conversation. Write a new, fully safe reply instead."
)

// Worthiness aggregates only consider users with this many interactions.
const establishedInteractions = 5

// Generator is the generation client surface the engine needs.
// *ai.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Settings is the scope-configuration surface. *storage.Storage satisfies
// it.
type Settings interface {
	GuildSettings(guildID string) storage.ScopeSettings
	ChannelActive(channelID string) bool
}

// Options configure an Engine.
type Options struct {
	SelfID            string
	OwnerID           string
	AmbientRate       float64 // baseline ambient engagement probability
	MatureAmbientRate float64 // ambient probability on mature-lexicon match
	Rand              *rand.Rand
}

// Engine wires the admission pipeline together. Construct one per process
// and hand it every inbound message event.
type Engine struct {
	selfID      string
	ownerID     string
	ambientRate float64
	matureRate  float64

	relations *relations.Store
	presence  *presence.Tracker
	settings  Settings
	filter    *guard.Filter
	manip     *guard.ManipulationDetector
	library   *persona.Library
	gen       Generator

	now func() time.Time

	randMu sync.Mutex
	rollFn func() float64
	intnFn func(n int) int
}

func New(rel *relations.Store, pres *presence.Tracker, settings Settings,
	filter *guard.Filter, manip *guard.ManipulationDetector,
	library *persona.Library, gen Generator, opts Options) *Engine {

	if opts.AmbientRate <= 0 {
		opts.AmbientRate = 0.09
	}
	if opts.MatureAmbientRate <= 0 {
		opts.MatureAmbientRate = 0.25
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Engine{
		selfID:      opts.SelfID,
		ownerID:     opts.OwnerID,
		ambientRate: opts.AmbientRate,
		matureRate:  opts.MatureAmbientRate,
		relations:   rel,
		presence:    pres,
		settings:    settings,
		filter:      filter,
		manip:       manip,
		library:     library,
		gen:         gen,
		now:         time.Now,
		rollFn:      opts.Rand.Float64,
		intnFn:      opts.Rand.Intn,
	}
}

// roll is the single admission draw: true with probability p. All random
// control flow funnels through here and intn so tests can seed the engine.
func (e *Engine) roll(p float64) bool {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	return e.rollFn() < p
}

func (e *Engine) intn(n int) int {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	return e.intnFn(n)
}

// HandleMessage runs the full admission pipeline for one message event.
// Returns nil when no reply should be sent. Never panics outward; a
// failure in one message must not poison the next.
func (e *Engine) HandleMessage(ctx context.Context, ev MessageEvent) *Reply {
	if ev.FromSelf || strings.TrimSpace(ev.Content) == "" {
		return nil
	}

	if ev.IsPrivate {
		return e.handlePrivate(ctx, ev)
	}

	e.presence.Touch(ev.ChannelID, ev.AuthorID, ev.MessageID, ev.Content)

	st := e.settings.GuildSettings(ev.GuildID)
	if !st.Active || !e.settings.ChannelActive(ev.ChannelID) {
		return nil
	}

	if st.FilterEnabled {
		if reply := e.applyInboundFilter(ev, st); reply != nil {
			return reply
		}
	}

	direct := ev.MentionsBot || ev.IsReplyToBot
	onCooldown := e.presence.OnCooldown(ev.AuthorID)
	if e.presence.SoleActive(ev.ChannelID, ev.AuthorID) || ev.AuthorID == e.ownerID {
		// A lone user must not be starved by their own last reply, and
		// the owner is never throttled.
		onCooldown = false
	}

	if direct {
		if onCooldown {
			return nil
		}
		target := presence.SeenMessage{
			MessageID: ev.MessageID,
			UserID:    ev.AuthorID,
			Content:   ev.Content,
			At:        e.now(),
		}
		return e.respond(ctx, ev, target, st)
	}

	// Ambient path: probabilistic engagement, then the worthiness gate,
	// then possibly a better target than the triggering author.
	if onCooldown {
		return nil
	}
	p := e.ambientRate
	if st.MatureEnabled && guard.HasMatureThemes(ev.Content) {
		p = e.matureRate
	}
	if !e.roll(p) {
		return nil
	}

	thresholds := computeWorthiness(
		e.relations.MaxReputation(),
		e.relations.AverageReputation(establishedInteractions),
	)
	rep := e.relations.Get(ev.AuthorID).Reputation
	if !e.roll(worthinessProbability(rep, thresholds)) {
		return nil
	}

	return e.respond(ctx, ev, e.selectTarget(ev), st)
}

// applyInboundFilter runs the safety pipeline on inbound text. A filtered
// message gets the fixed refusal and still counts as an interaction; a
// manipulation hit additionally costs reputation.
func (e *Engine) applyInboundFilter(ev MessageEvent, st storage.ScopeSettings) *Reply {
	v := e.filter.Check(ev.Content, ev.AuthorID, st)
	if v.Filtered {
		log.Printf("[GUARD] Refused message from %s: jailbreak=%v(%s) impersonation=%v mature=%d safe=%v(%s)",
			ev.AuthorID, v.Jailbreak, v.JailbreakReason, v.Impersonation, v.MatureLevel, v.Safe, v.SafetyReason)
		e.relations.Adjust(ev.AuthorID, 0)
		return &Reply{InReplyTo: ev.MessageID, ChannelID: ev.ChannelID, Text: refusalLine}
	}

	if e.manip != nil {
		rep := e.relations.Get(ev.AuthorID).Reputation
		if hit, penalty := e.manip.Check(ev.Content, rep); hit {
			log.Printf("[GUARD] Manipulation attempt from %s, penalty %d", ev.AuthorID, penalty)
			e.relations.Adjust(ev.AuthorID, penalty)
			return &Reply{InReplyTo: ev.MessageID, ChannelID: ev.ChannelID, Text: refusalLine}
		}
	}
	return nil
}

// handlePrivate answers direct messages: no activation, cooldown or
// worthiness gates, but the safety pipeline still applies. Private scopes
// default to permissive mature settings.
func (e *Engine) handlePrivate(ctx context.Context, ev MessageEvent) *Reply {
	st := storage.ScopeSettings{
		Active:        true,
		FilterEnabled: true,
		MatureEnabled: true,
		MatureLevel:   2,
	}

	if reply := e.applyInboundFilter(ev, st); reply != nil {
		return reply
	}

	target := presence.SeenMessage{
		MessageID: ev.MessageID,
		UserID:    ev.AuthorID,
		Content:   ev.Content,
		At:        e.now(),
	}
	return e.respond(ctx, ev, target, st)
}

// respond builds the prompt for the target user, calls generation, and
// re-filters the model's own output. Reputation gains +1 only on a
// successful, deliverable generation; fallback replies leave the ledger
// untouched.
func (e *Engine) respond(ctx context.Context, ev MessageEvent, target presence.SeenMessage, st storage.ScopeSettings) *Reply {
	rec := e.relations.Get(target.UserID)
	tones := persona.ComputeThresholds(
		e.relations.MaxReputation(),
		e.relations.MinActiveReputation(3),
	)
	prompt := e.library.SystemPrompt(target.Content, rec, tones, st)

	text, err := e.gen.Generate(ctx, prompt, target.Content)
	if err != nil {
		log.Printf("[BRAIN] Generation failed for %s: %v", target.UserID, err)
		e.presence.MarkResponded(target.UserID)
		return &Reply{InReplyTo: target.MessageID, ChannelID: ev.ChannelID, Text: ai.FallbackLine(err)}
	}

	if st.FilterEnabled {
		if v := e.filter.CheckOutput(text, st); v.Filtered {
			log.Printf("[BRAIN] Model output filtered (%s), regenerating once", describeVerdict(v))
			redo, rerr := e.gen.Generate(ctx, prompt+"\n\n"+rewriteInstruction, target.Content)
			if rerr != nil || e.filter.CheckOutput(redo, st).Filtered {
				text = safeFallback
			} else {
				text = redo
			}
		}
	}

	e.relations.Adjust(target.UserID, 1)
	e.presence.MarkResponded(target.UserID)
	return &Reply{InReplyTo: target.MessageID, ChannelID: ev.ChannelID, Text: text}
}

func describeVerdict(v guard.Verdict) string {
	switch {
	case v.Jailbreak:
		return "jailbreak: " + v.JailbreakReason
	case v.Impersonation:
		return "impersonation"
	case v.MatureDetected:
		return "mature content"
	default:
		return "unsafe: " + v.SafetyReason
	}
}
