package brain

import (
	"sort"
	"time"

	"server-muse/internal/presence"
)

// candidateWindow bounds how far back the engine looks for alternate
// response targets, and recencySpan is how fast the recency bonus decays.
const (
	candidateWindow = 60 * time.Second
	recencySpan     = 10.0 // seconds per bonus point lost
	redirectMargin  = 5    // reputation lead required to steal the reply
)

type candidate struct {
	msg   presence.SeenMessage
	rep   int
	score float64
}

// selectTarget picks who the ambient reply should go to. Users who spoke
// in the channel within the candidate window (excluding the author and
// the bot) are scored by reputation, recency and a bounded random factor;
// the top candidate steals the reply only with a clear reputation lead
// over the triggering author. Returns the message to reply to.
func (e *Engine) selectTarget(ev MessageEvent) presence.SeenMessage {
	own := presence.SeenMessage{
		MessageID: ev.MessageID,
		UserID:    ev.AuthorID,
		Content:   ev.Content,
		At:        e.now(),
	}

	speakers := e.presence.RecentSpeakers(ev.ChannelID, candidateWindow)
	now := e.now()

	var candidates []candidate
	for userID, seen := range speakers {
		if userID == ev.AuthorID || userID == e.selfID {
			continue
		}
		if e.presence.OnCooldown(userID) && !e.presence.SoleActive(ev.ChannelID, userID) {
			continue
		}
		msg, ok := e.presence.LatestMessage(ev.ChannelID, userID)
		if !ok {
			continue
		}

		rep := e.relations.Get(userID).Reputation
		recency := 5.0 - now.Sub(seen).Seconds()/recencySpan
		if recency < 0 {
			recency = 0
		}
		score := 10.0*float64(rep) + recency + float64(1+e.intn(20))
		candidates = append(candidates, candidate{msg: msg, rep: rep, score: score})
	}
	if len(candidates) == 0 {
		return own
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	authorRep := e.relations.Get(ev.AuthorID).Reputation
	if top := candidates[0]; top.rep > authorRep+redirectMargin {
		return top.msg
	}
	return own
}
