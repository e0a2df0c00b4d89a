package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// FilterCommand toggles the content-safety pipeline for a server.
type FilterCommand struct{}

func (c *FilterCommand) Name() string        { return "muse-filter" }
func (c *FilterCommand) Description() string { return "Enable or disable the content filter" }
func (c *FilterCommand) Group() string       { return "core" }
func (c *FilterCommand) Category() string    { return "⚙️ Settings" }
func (c *FilterCommand) OwnerOnly() bool     { return true }

func (c *FilterCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Enable or disable filtering",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Enable", Value: "enable"},
					{Name: "Disable", Value: "disable"},
				},
			},
		},
	}
}

func (c *FilterCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	enabled := slash.Event.ApplicationCommandData().Options[0].StringValue() == "enable"
	slash.Deps.Storage.SetFilterEnabled(slash.Event.GuildID, enabled)

	if enabled {
		return respondEphemeral(slash.Session, slash.Event, "Content filter enabled.")
	}
	return respondEphemeral(slash.Session, slash.Event, "Content filter disabled. Tread carefully.")
}

func init() {
	Register(
		WithCommandLogger(
			WithOwnerOnly(
				WithGuildOnly(
					&FilterCommand{},
				),
			),
		),
	)
}
