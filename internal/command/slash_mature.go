package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MatureCommand toggles mature-content mode and its intensity level for a
// server. Disabling always resets the level back to 1.
type MatureCommand struct{}

func (c *MatureCommand) Name() string        { return "muse-mature" }
func (c *MatureCommand) Description() string { return "Enable or disable mature content mode" }
func (c *MatureCommand) Group() string       { return "core" }
func (c *MatureCommand) Category() string    { return "⚙️ Settings" }
func (c *MatureCommand) OwnerOnly() bool     { return true }

func (c *MatureCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var minLevel float64 = 1
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Enable or disable mature mode",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Enable", Value: "enable"},
					{Name: "Disable", Value: "disable"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "Allowed intensity, 1 (mild) to 3 (explicit)",
				Required:    false,
				MinValue:    &minLevel,
				MaxValue:    3,
			},
		},
	}
}

func (c *MatureCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	data := slash.Event.ApplicationCommandData()
	enabled := data.Options[0].StringValue() == "enable"
	level := 1
	if len(data.Options) > 1 {
		level = int(data.Options[1].IntValue())
	}

	slash.Deps.Storage.SetMature(slash.Event.GuildID, enabled, level)

	if !enabled {
		return respondEphemeral(slash.Session, slash.Event, "Mature mode disabled. Back to good behavior.")
	}
	return respondEphemeral(slash.Session, slash.Event,
		fmt.Sprintf("Mature mode enabled at level %d.", level))
}

func init() {
	Register(
		WithCommandLogger(
			WithOwnerOnly(
				WithGuildOnly(
					&MatureCommand{},
				),
			),
		),
	)
}
