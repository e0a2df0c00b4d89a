package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ExportCommand dumps the full datastore as a JSON attachment: relations,
// scope settings, channel activation and manipulation patterns, with row
// counts and an export timestamp.
type ExportCommand struct{}

func (c *ExportCommand) Name() string        { return "muse-export" }
func (c *ExportCommand) Description() string { return "Export the database as JSON" }
func (c *ExportCommand) Group() string       { return "maintenance" }
func (c *ExportCommand) Category() string    { return "🛠️ Maintenance" }
func (c *ExportCommand) OwnerOnly() bool     { return true }

func (c *ExportCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ExportCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	doc, err := slash.Deps.Storage.Export()
	if err != nil {
		return respondEphemeral(slash.Session, slash.Event,
			fmt.Sprintf("Export failed: ```%v```", err))
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return respondEphemeral(slash.Session, slash.Event,
			fmt.Sprintf("JSON encode failed: ```%v```", err))
	}

	file := &discordgo.File{
		Name:        "muse_export.json",
		ContentType: "application/json",
		Reader:      bytes.NewReader(jsonBytes),
	}
	return respondFileEphemeral(slash.Session, slash.Event, "Here is everything I remember.", file)
}

func init() {
	Register(
		WithCommandLogger(
			WithOwnerOnly(
				&ExportCommand{},
			),
		),
	)
}
