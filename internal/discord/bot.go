// Package discord is the gateway adapter: it owns the discordgo session,
// converts events into engine inputs and delivers replies.
package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"server-muse/internal/brain"
	"server-muse/internal/command"
	"server-muse/internal/config"

	"github.com/bwmarrin/discordgo"
)

// EngineFactory builds the admission engine once the bot's own user ID is
// known. The ID is only available after the gateway session opens.
type EngineFactory func(selfID string) *brain.Engine

// Bot is the Discord bot.
type Bot struct {
	dg        *discordgo.Session
	cfg       *config.Config
	deps      *command.Deps
	newEngine EngineFactory

	mu     sync.RWMutex
	engine *brain.Engine
}

func NewBot(cfg *config.Config, deps *command.Deps, newEngine EngineFactory) *Bot {
	return &Bot{
		cfg:       cfg,
		deps:      deps,
		newEngine: newEngine,
	}
}

// Run opens the gateway session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) getEngine() *brain.Engine {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.engine
}

// onReady builds the engine with the session's own user ID and registers
// slash commands in every guild the bot already sits in.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	b.engine = b.newEngine(s.State.User.ID)
	b.mu.Unlock()

	for _, g := range r.Guilds {
		if err := b.registerCommands(g.ID); err != nil {
			log.Printf("[ERR] Failed to register commands for guild %s: %v", g.ID, err)
		}
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", s.State.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

// registerCommands reconciles the guild's slash commands with the local
// registry: obsolete ones are deleted, missing ones created.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	wanted := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range command.All() {
		if sp, ok := cmd.(command.SlashProvider); ok {
			if def := sp.SlashDefinition(); def != nil {
				wanted[def.Name] = def
			}
		}
	}

	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	present := make(map[string]bool)
	for _, old := range existing {
		if _, ok := wanted[old.Name]; !ok {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
			continue
		}
		present[old.Name] = true
	}

	// Registration is rate limited by Discord; pace the creates.
	ticker := time.NewTicker(time.Second / 20)
	defer ticker.Stop()
	for name, def := range wanted {
		if present[name] {
			continue
		}
		<-ticker.C
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Printf("[ERR] Can't create command %s: %v", name, err)
		} else {
			log.Printf("[DONE] Command created: %s", name)
		}
	}
	return nil
}
