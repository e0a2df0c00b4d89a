package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required"`
	MistralAPIKey string `env:"MISTRAL_API_KEY"`
	MistralModel  string `env:"MISTRAL_MODEL" envDefault:"mistral-large-latest"`
	OwnerID       string `env:"OWNER_ID"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"data/muse.json"`
	LorePath    string `env:"LORE_PATH" envDefault:"data/lore.json"`
	SpeechPath  string `env:"SPEECH_PATH" envDefault:"data/speech.json"`

	// Admission tunables. Deliberate product choices, not invariants.
	CooldownTime      time.Duration `env:"COOLDOWN_TIME" envDefault:"20s"`
	ActivityWindow    time.Duration `env:"ACTIVITY_WINDOW" envDefault:"120s"`
	AmbientRate       float64       `env:"AMBIENT_RATE" envDefault:"0.09"`
	MatureAmbientRate float64       `env:"MATURE_AMBIENT_RATE" envDefault:"0.25"`

	// Generation client pacing.
	MinAPIInterval time.Duration `env:"MIN_API_INTERVAL" envDefault:"1s"`
	GenTimeout     time.Duration `env:"GEN_TIMEOUT" envDefault:"30s"`
	GenMaxRetries  int           `env:"GEN_MAX_RETRIES" envDefault:"3"`
	MaxTokens      int           `env:"GEN_MAX_TOKENS" envDefault:"100"`
	Temperature    float64       `env:"GEN_TEMPERATURE" envDefault:"0.5"`
}

// New loads configuration or dies. Call once from main.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[ERR] Config parse failed: %v", err)
	}
	return cfg
}
