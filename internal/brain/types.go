package brain

// MessageEvent is the gateway-neutral shape of one incoming message.
type MessageEvent struct {
	MessageID  string
	AuthorID   string
	AuthorName string
	ChannelID  string
	GuildID    string // empty for private conversations
	Content    string

	MentionsBot  bool
	IsReplyToBot bool
	IsPrivate    bool
	FromSelf     bool
}

// Reply is what the engine hands back to the gateway for delivery.
// A nil *Reply means the message was not admitted.
type Reply struct {
	InReplyTo string // message ID the reply should attach to
	ChannelID string
	Text      string
}
