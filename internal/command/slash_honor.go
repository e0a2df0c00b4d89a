package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// HonorCommand hand-adjusts a user's reputation. The delta is applied
// through the same clamped ledger path as organic interactions.
type HonorCommand struct{}

func (c *HonorCommand) Name() string        { return "muse-honor" }
func (c *HonorCommand) Description() string { return "Adjust a user's reputation by a given amount" }
func (c *HonorCommand) Group() string       { return "core" }
func (c *HonorCommand) Category() string    { return "👥 Relations" }
func (c *HonorCommand) OwnerOnly() bool     { return true }

func (c *HonorCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Whose reputation to adjust",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Positive to reward, negative to punish",
				Required:    true,
			},
		},
	}
}

func (c *HonorCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	data := slash.Event.ApplicationCommandData()
	user := data.Options[0].UserValue(slash.Session)
	if user == nil {
		return respondEphemeral(slash.Session, slash.Event, "I don't know who that is.")
	}
	if user.Bot {
		return respondEphemeral(slash.Session, slash.Event, "Bots have no honor to adjust.")
	}
	amount := int(data.Options[1].IntValue())

	rec := slash.Deps.Relations.Adjust(user.ID, amount)
	return respondEphemeral(slash.Session, slash.Event,
		fmt.Sprintf("%s now stands at %d reputation.", user.Username, rec.Reputation))
}

func init() {
	Register(
		WithCommandLogger(
			WithOwnerOnly(
				WithGuildOnly(
					&HonorCommand{},
				),
			),
		),
	)
}
