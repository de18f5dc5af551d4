package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvProviderDefaults(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		wantBaseURL string
		wantModel   string
	}{
		{
			name:        "gemini default",
			provider:    "gemini",
			wantBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
			wantModel:   "gemini-1.5-flash",
		},
		{
			name:        "deepseek default",
			provider:    "deepseek",
			wantBaseURL: "https://api.deepseek.com",
			wantModel:   "deepseek-chat",
		},
		{
			name:        "unknown provider falls back to gemini",
			provider:    "nonsense",
			wantBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
			wantModel:   "gemini-1.5-flash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VIPSENSE_LLM_PROVIDER", tt.provider)
			t.Setenv("VIPSENSE_LLM_BASE_URL", "")
			t.Setenv("VIPSENSE_LLM_MODEL", "")

			p := &Profile{}
			p.FromEnv()

			assert.Equal(t, tt.wantBaseURL, p.LLMBaseURL)
			assert.Equal(t, tt.wantModel, p.LLMModel)
		})
	}
}

func TestFromEnvExplicitOverrides(t *testing.T) {
	t.Setenv("VIPSENSE_LLM_PROVIDER", "openai")
	t.Setenv("VIPSENSE_LLM_BASE_URL", "https://proxy.example.com/v1")
	t.Setenv("VIPSENSE_LLM_MODEL", "gpt-4o")
	t.Setenv("VIPSENSE_LLM_TIMEOUT_SECONDS", "30")
	t.Setenv("VIPSENSE_SUMMARY_WINDOW_HOURS", "48")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "https://proxy.example.com/v1", p.LLMBaseURL)
	assert.Equal(t, "gpt-4o", p.LLMModel)
	assert.Equal(t, 30, p.LLMTimeout)
	assert.Equal(t, 48, p.SummaryWindowHours)
}

func TestValidate(t *testing.T) {
	valid := func() *Profile {
		return &Profile{
			Mode:               "dev",
			Driver:             "sqlite",
			DSN:                "vipsense.db",
			SlackBotToken:      "xoxb-test",
			SummaryWindowHours: 24,
			LLMTimeout:         60,
		}
	}

	t.Run("valid profile", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing dsn", func(t *testing.T) {
		p := valid()
		p.DSN = ""
		assert.Error(t, p.Validate())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		p := valid()
		p.Driver = "mysql"
		assert.Error(t, p.Validate())
	})

	t.Run("missing slack token", func(t *testing.T) {
		p := valid()
		p.SlackBotToken = ""
		assert.Error(t, p.Validate())
	})

	t.Run("zero window normalized", func(t *testing.T) {
		p := valid()
		p.SummaryWindowHours = 0
		require.NoError(t, p.Validate())
		assert.Equal(t, 24, p.SummaryWindowHours)
	})
}
