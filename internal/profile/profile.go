package profile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol).
	// All providers (gemini, openai, deepseek, ollama) use the same config.
	LLMProvider string // Provider identifier: gemini, openai, deepseek, ollama
	LLMAPIKey   string // LLM API key
	LLMBaseURL  string // LLM base URL (optional, has default per provider)
	LLMModel    string // Model name: gemini-1.5-flash, gpt-4o, deepseek-chat, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 60)

	// Slack configuration.
	SlackBotToken string // Bot token (xoxb-...) used for all workspace API calls

	// Summarization defaults.
	SummaryWindowHours int // Default trailing window for summaries (default: 24)

	Mode    string // dev, demo, prod
	Addr    string
	Port    int
	Driver  string // sqlite, postgres
	DSN     string
	Version string
}

// Provider default configurations for LLM.
// Used when VIPSENSE_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"gemini": {
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		Model:   "gemini-1.5-flash",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("VIPSENSE_LLM_PROVIDER", "gemini")
	p.LLMAPIKey = getEnvOrDefault("VIPSENSE_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("VIPSENSE_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("VIPSENSE_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("VIPSENSE_LLM_TIMEOUT_SECONDS", 60)

	p.SlackBotToken = getEnvOrDefault("VIPSENSE_SLACK_BOT_TOKEN", "")

	p.SummaryWindowHours = getEnvOrDefaultInt("VIPSENSE_SUMMARY_WINDOW_HOURS", 24)

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("unknown LLM provider, using default: gemini", "provider", p.LLMProvider)
		p.LLMProvider = "gemini"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}
}

// Validate checks that the profile is runnable.
func (p *Profile) Validate() error {
	switch p.Mode {
	case "dev", "demo", "prod":
	default:
		p.Mode = "dev"
	}

	switch p.Driver {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported database driver %q (expected sqlite or postgres)", p.Driver)
	}
	if p.DSN == "" {
		return errors.New("dsn required")
	}

	if p.SlackBotToken == "" {
		return errors.New("slack bot token required (set VIPSENSE_SLACK_BOT_TOKEN)")
	}

	if p.SummaryWindowHours <= 0 {
		p.SummaryWindowHours = 24
	}
	if p.LLMTimeout <= 0 {
		p.LLMTimeout = 60
	}

	return nil
}

func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}
