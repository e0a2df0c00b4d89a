package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ActivateCommand turns the responder on or off for the whole server or
// just the current channel. Deactivated scopes still record presence but
// never answer.
type ActivateCommand struct{}

func (c *ActivateCommand) Name() string        { return "muse-activate" }
func (c *ActivateCommand) Description() string { return "Enable or disable Muse in this server or channel" }
func (c *ActivateCommand) Group() string       { return "core" }
func (c *ActivateCommand) Category() string    { return "⚙️ Settings" }
func (c *ActivateCommand) OwnerOnly() bool     { return true }

func (c *ActivateCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "scope",
				Description: "What to toggle",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Server", Value: "server"},
					{Name: "Channel", Value: "channel"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Activate or deactivate",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Activate", Value: "activate"},
					{Name: "Deactivate", Value: "deactivate"},
				},
			},
		},
	}
}

func (c *ActivateCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	data := slash.Event.ApplicationCommandData()
	scope := data.Options[0].StringValue()
	active := data.Options[1].StringValue() == "activate"

	switch scope {
	case "server":
		slash.Deps.Storage.SetGuildActive(slash.Event.GuildID, active)
	case "channel":
		slash.Deps.Storage.SetChannelActive(slash.Event.ChannelID, active)
	default:
		return respondEphemeral(slash.Session, slash.Event, "Unknown scope.")
	}

	verb := "listening"
	if !active {
		verb = "silent"
	}
	return respondEphemeral(slash.Session, slash.Event,
		fmt.Sprintf("Muse is now %s in this %s.", verb, scope))
}

func init() {
	Register(
		WithCommandLogger(
			WithOwnerOnly(
				WithGuildOnly(
					&ActivateCommand{},
				),
			),
		),
	)
}
