package command

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	return w.wrap(ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// The persona never breaks character, not even to say no.
const notAuthorizedLine = "You are not the one I answer to."

// WithOwnerOnly refuses everyone except the configured owner. Commands
// marked OwnerOnly get this applied at registration.
func WithOwnerOnly(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			if slash, ok := ctx.(*SlashContext); ok {
				if callerID(slash.Event) != slash.Deps.OwnerID {
					return respondEphemeral(slash.Session, slash.Event, notAuthorizedLine)
				}
			}
			return cmd.Run(ctx)
		},
	}
}

func WithGuildOnly(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			if slash, ok := ctx.(*SlashContext); ok {
				if slash.Event.GuildID == "" {
					return respondEphemeral(slash.Session, slash.Event, "That only works inside a server.")
				}
			}
			return cmd.Run(ctx)
		},
	}
}

func WithCommandLogger(cmd Command) Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			if slash, ok := ctx.(*SlashContext); ok {
				log.Printf("[CMD] /%s by %s in guild %s", cmd.Name(), callerID(slash.Event), slash.Event.GuildID)
			}
			return cmd.Run(ctx)
		},
	}
}

func callerID(event *discordgo.InteractionCreate) string {
	if event.Member != nil && event.Member.User != nil {
		return event.Member.User.ID
	}
	if event.User != nil {
		return event.User.ID
	}
	return ""
}
