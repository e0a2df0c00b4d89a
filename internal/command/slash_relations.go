package command

import (
	"fmt"

	"server-muse/internal/persona"

	"github.com/bwmarrin/discordgo"
)

// RelationsCommand shows how Muse currently regards a user: reputation,
// interaction count and the tone band those land them in.
type RelationsCommand struct{}

func (c *RelationsCommand) Name() string        { return "muse-relations" }
func (c *RelationsCommand) Description() string { return "Show Muse's standing with a user" }
func (c *RelationsCommand) Group() string       { return "core" }
func (c *RelationsCommand) Category() string    { return "👥 Relations" }
func (c *RelationsCommand) OwnerOnly() bool     { return true }

func (c *RelationsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Whose standing to inspect",
				Required:    true,
			},
		},
	}
}

func (c *RelationsCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	data := slash.Event.ApplicationCommandData()
	user := data.Options[0].UserValue(slash.Session)
	if user == nil {
		return respondEphemeral(slash.Session, slash.Event, "I don't know who that is.")
	}

	rel := slash.Deps.Relations
	rec := rel.Get(user.ID)
	thresholds := persona.ComputeThresholds(rel.MaxReputation(), rel.MinActiveReputation(3))
	tone := persona.SelectTone(rec.Reputation, rec.Interactions, thresholds)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Relations: %s", user.Username),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reputation", Value: fmt.Sprintf("%d", rec.Reputation), Inline: true},
			{Name: "Interactions", Value: fmt.Sprintf("%d", rec.Interactions), Inline: true},
			{Name: "Tone", Value: tone.String(), Inline: true},
		},
	}
	if !rec.LastInteraction.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Last interaction",
			Value: rec.LastInteraction.Format("2006-01-02 15:04:05 MST"),
		})
	}

	return respondEmbedEphemeral(slash.Session, slash.Event, embed)
}

func init() {
	Register(
		WithCommandLogger(
			WithOwnerOnly(
				WithGuildOnly(
					&RelationsCommand{},
				),
			),
		),
	)
}
