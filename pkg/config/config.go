package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Room       RoomConfig
	Summarizer SummarizerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"3000"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// RoomConfig holds room store configuration
type RoomConfig struct {
	// TranscriptCap bounds the per-room transcript sequence; the oldest
	// entries are evicted beyond this.
	TranscriptCap int `envconfig:"TRANSCRIPT_CAP" default:"2000"`
}

// SummarizerConfig holds summarizer configuration. Provider selects the
// summarization backend at startup: "fallback" uses the built-in rule-based
// generator only, "groq" sends transcripts to the Groq API and falls back to
// the rule-based generator on any failure.
type SummarizerConfig struct {
	Provider string        `envconfig:"SUMMARIZER_PROVIDER" default:"fallback"`
	Interval time.Duration `envconfig:"SUMMARIZER_INTERVAL" default:"25s"`

	GroqAPIKey  string `envconfig:"GROQ_API_KEY"`
	GroqBaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	GroqModel   string `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Summarizer.Provider {
	case "fallback":
	case "groq":
		if c.Summarizer.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when SUMMARIZER_PROVIDER=groq")
		}
	default:
		return fmt.Errorf("SUMMARIZER_PROVIDER must be fallback or groq, got %q", c.Summarizer.Provider)
	}

	if c.Room.TranscriptCap <= 0 {
		return fmt.Errorf("TRANSCRIPT_CAP must be positive, got %d", c.Room.TranscriptCap)
	}
	if c.Summarizer.Interval <= 0 {
		return fmt.Errorf("SUMMARIZER_INTERVAL must be positive, got %s", c.Summarizer.Interval)
	}
	return nil
}

// GetAddr returns the host:port the server listens on
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
