// Package command holds the owner-facing slash commands and the small
// registry the gateway dispatches them from.
package command

import (
	"server-muse/internal/relations"
	"server-muse/internal/storage"

	"github.com/bwmarrin/discordgo"
)

type Command interface {
	Name() string
	Description() string
	Group() string
	Category() string
	OwnerOnly() bool
	Run(ctx interface{}) error
}

type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Deps is everything a command may need beyond the interaction itself.
type Deps struct {
	Storage   *storage.Storage
	Relations *relations.Store
	OwnerID   string
}

type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Deps    *Deps
}
