package discord

import (
	"fmt"
	"log"

	"server-muse/internal/command"

	"github.com/bwmarrin/discordgo"
)

// onInteractionCreate dispatches slash commands to the registry.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := command.Get(name)
	if !ok {
		log.Printf("[WARN] Unknown command: %s", name)
		return
	}

	ctx := &command.SlashContext{
		Session: s,
		Event:   i,
		Deps:    b.deps,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Println("[ERR] Error running slash command:", err)
		_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("Something broke: %v", err),
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}
