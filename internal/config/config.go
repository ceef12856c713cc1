package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Demo swaps the completion provider for the fixed playlist and the
	// Sheets/SMTP lead sinks for a local file and the log.
	Demo bool

	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	PromptFile      string

	// Google Sheets service account
	SheetID          string
	SheetRange       string
	GoogleClientMail string
	GooglePrivateKey string

	// SMTP
	EmailService  string
	EmailSMTPHost string
	EmailSMTPPort int
	EmailUser     string
	EmailPass     string
	EmailTo       string

	LeadFile string

	// Optional lead archive: postgres://... or a sqlite file path
	ArchiveDSN    string
	RedisAddr     string
	RedisGroup    string
	RedisConsumer string

	SessionMaxMessages int
	SessionIdleTTL     time.Duration

	LogLevel  string
	LogFormat string
}

// ClientConfig configures the widget side (the chat subcommand).
type ClientConfig struct {
	RelayURL        string
	Demo            bool
	DemoDelay       time.Duration
	Greeting        string
	LeadPhrasesFile string
	LogLevel        string
	LogFormat       string
}

// DefaultPromptFile is the prompt spec shipped with the relay, relative to the
// working directory.
const DefaultPromptFile = "prompts/chat.yaml"

const DefaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:               getEnvDefault("PORT", "3000"),
		AllowedOrigin:      getEnvDefault("ALLOWED_ORIGIN", "*"),
		Demo:               getEnvBoolDefault("LEADCHAT_DEMO", false),
		LLMProvider:        strings.ToLower(getEnvDefault("LLM_PROVIDER", ProviderAnthropic)),
		AnthropicAPIKey:    os.Getenv("CLAUDE_API_KEY"),
		AnthropicModel:     getEnvDefault("ANTHROPIC_MODEL", "claude-3-opus-20240229"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		PromptFile:         getEnvDefault("PROMPT_FILE", DefaultPromptFile),
		SheetID:            os.Getenv("GOOGLE_SHEET_ID"),
		SheetRange:         getEnvDefault("GOOGLE_SHEET_RANGE", "Sheet1!A:D"),
		GoogleClientMail:   os.Getenv("GOOGLE_CLIENT_EMAIL"),
		GooglePrivateKey:   os.Getenv("GOOGLE_PRIVATE_KEY"),
		EmailService:       os.Getenv("EMAIL_SERVICE"),
		EmailSMTPHost:      os.Getenv("EMAIL_SMTP_HOST"),
		EmailSMTPPort:      getEnvIntDefault("EMAIL_SMTP_PORT", 587),
		EmailUser:          os.Getenv("EMAIL_USER"),
		EmailPass:          os.Getenv("EMAIL_PASS"),
		EmailTo:            os.Getenv("EMAIL_TO"),
		LeadFile:           getEnvDefault("LEAD_FILE", "data/leads.jsonl"),
		ArchiveDSN:         os.Getenv("ARCHIVE_DSN"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisGroup:         getEnvDefault("REDIS_GROUP", "leadchat"),
		RedisConsumer:      getEnvDefault("REDIS_CONSUMER", "relay-1"),
		SessionMaxMessages: getEnvIntDefault("SESSION_MAX_MESSAGES", 40),
		SessionIdleTTL:     getEnvDurationDefault("SESSION_IDLE_TTL", 30*time.Minute),
		LogLevel:           getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvDefault("LOG_FORMAT", "auto"),
	}
}

func LoadClient() ClientConfig {
	_ = godotenv.Load()
	return ClientConfig{
		RelayURL:        strings.TrimRight(getEnvDefault("RELAY_URL", "http://localhost:3000"), "/"),
		Demo:            getEnvBoolDefault("WIDGET_DEMO", false),
		DemoDelay:       getEnvDurationDefault("WIDGET_DEMO_DELAY", 1500*time.Millisecond),
		Greeting:        getEnvDefault("WIDGET_GREETING", DefaultGreeting),
		LeadPhrasesFile: os.Getenv("LEAD_PHRASES_FILE"),
		LogLevel:        getEnvDefault("LOG_LEVEL", "warn"),
		LogFormat:       getEnvDefault("LOG_FORMAT", "console"),
	}
}

// Validate reports every missing required setting at once so the relay can
// refuse to start instead of failing on the first request.
func (c Config) Validate() error {
	var missing []string
	require := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	require("PORT", c.Port)
	if !c.Demo {
		switch c.LLMProvider {
		case ProviderAnthropic:
			require("CLAUDE_API_KEY", c.AnthropicAPIKey)
		case ProviderOpenAI:
			require("OPENAI_API_KEY", c.OpenAIAPIKey)
		default:
			return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
		}
		require("GOOGLE_SHEET_ID", c.SheetID)
		require("GOOGLE_CLIENT_EMAIL", c.GoogleClientMail)
		require("GOOGLE_PRIVATE_KEY", c.GooglePrivateKey)
		if strings.TrimSpace(c.EmailService) == "" && strings.TrimSpace(c.EmailSMTPHost) == "" {
			missing = append(missing, "EMAIL_SERVICE or EMAIL_SMTP_HOST")
		}
		require("EMAIL_USER", c.EmailUser)
		require("EMAIL_PASS", c.EmailPass)
		require("EMAIL_TO", c.EmailTo)
	} else {
		require("LEAD_FILE", c.LeadFile)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.SessionMaxMessages < 0 {
		return errors.New("SESSION_MAX_MESSAGES must not be negative")
	}
	return nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
