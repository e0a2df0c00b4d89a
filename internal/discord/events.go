package discord

import (
	"context"
	"log"

	"server-muse/internal/brain"

	"github.com/bwmarrin/discordgo"
)

// onMessageCreate converts the gateway event and hands it to the engine
// in its own goroutine: one slow or panicking message must never block or
// poison the handler for the next one.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	engine := b.getEngine()
	if engine == nil || m.Author == nil {
		return
	}

	selfID := s.State.User.ID
	ev := brain.MessageEvent{
		MessageID:    m.ID,
		AuthorID:     m.Author.ID,
		AuthorName:   m.Author.Username,
		ChannelID:    m.ChannelID,
		GuildID:      m.GuildID,
		Content:      m.Content,
		MentionsBot:  mentionsUser(m, selfID),
		IsReplyToBot: isReplyTo(m, selfID),
		IsPrivate:    m.GuildID == "",
		FromSelf:     m.Author.ID == selfID || m.Author.Bot,
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERR] Panic handling message %s: %v", ev.MessageID, r)
			}
		}()

		reply := engine.HandleMessage(context.Background(), ev)
		if reply == nil {
			return
		}
		b.deliver(s, reply)
	}()
}

func (b *Bot) deliver(s *discordgo.Session, reply *brain.Reply) {
	_, err := s.ChannelMessageSendReply(reply.ChannelID, reply.Text, &discordgo.MessageReference{
		MessageID: reply.InReplyTo,
		ChannelID: reply.ChannelID,
	})
	if err != nil {
		// The referenced message may have been deleted; fall back to a
		// plain channel message.
		if _, err := s.ChannelMessageSend(reply.ChannelID, reply.Text); err != nil {
			log.Printf("[ERR] Failed to deliver reply in %s: %v", reply.ChannelID, err)
		}
	}
}

func mentionsUser(m *discordgo.MessageCreate, userID string) bool {
	for _, u := range m.Mentions {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func isReplyTo(m *discordgo.MessageCreate, userID string) bool {
	ref := m.ReferencedMessage
	return ref != nil && ref.Author != nil && ref.Author.ID == userID
}
