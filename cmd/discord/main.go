// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"server-muse/internal/ai"
	"server-muse/internal/brain"
	"server-muse/internal/command"
	"server-muse/internal/config"
	"server-muse/internal/discord"
	"server-muse/internal/guard"
	"server-muse/internal/persona"
	"server-muse/internal/presence"
	"server-muse/internal/relations"
	"server-muse/internal/storage"
	v "server-muse/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	rel := relations.NewStore(store)
	pres := presence.NewTracker(cfg.ActivityWindow, cfg.CooldownTime)
	filter := guard.NewFilter(persona.Name, cfg.OwnerID)
	manip := guard.NewManipulationDetector(store)
	library := persona.LoadLibrary(cfg.LorePath, cfg.SpeechPath)

	provider := ai.NewMistralProvider(cfg.MistralAPIKey, cfg.MistralModel)
	client := ai.NewClient(provider, ai.ClientOptions{
		MinInterval: cfg.MinAPIInterval,
		Timeout:     cfg.GenTimeout,
		MaxRetries:  cfg.GenMaxRetries,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})

	deps := &command.Deps{
		Storage:   store,
		Relations: rel,
		OwnerID:   cfg.OwnerID,
	}

	bot := discord.NewBot(cfg, deps, func(selfID string) *brain.Engine {
		return brain.New(rel, pres, store, filter, manip, library, client, brain.Options{
			SelfID:            selfID,
			OwnerID:           cfg.OwnerID,
			AmbientRate:       cfg.AmbientRate,
			MatureAmbientRate: cfg.MatureAmbientRate,
		})
	})

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
