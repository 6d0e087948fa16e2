package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *Profile {
	return &Profile{
		Mode:               "dev",
		Port:               8080,
		Timezone:           DefaultTimezone,
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		GoogleRedirectURI:  "http://localhost:8080/callback",
		LLMAPIKey:          "key",
	}
}

func TestProfile_ValidateOK(t *testing.T) {
	p := validProfile()
	require.NoError(t, p.Validate())
	assert.Equal(t, DefaultTimezone, p.Location().String())
}

func TestProfile_ValidateMissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   string
	}{
		{"client id", func(p *Profile) { p.GoogleClientID = "" }, "BOOKWISE_GOOGLE_CLIENT_ID"},
		{"client secret", func(p *Profile) { p.GoogleClientSecret = "" }, "BOOKWISE_GOOGLE_CLIENT_SECRET"},
		{"redirect uri", func(p *Profile) { p.GoogleRedirectURI = "" }, "BOOKWISE_GOOGLE_REDIRECT_URI"},
		{"llm api key", func(p *Profile) { p.LLMAPIKey = "" }, "BOOKWISE_LLM_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProfile_ValidateTimezone(t *testing.T) {
	t.Run("invalid name rejected", func(t *testing.T) {
		p := validProfile()
		p.Timezone = "Mars/Olympus_Mons"
		assert.Error(t, p.Validate())
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		p := validProfile()
		p.Timezone = ""
		require.NoError(t, p.Validate())
		assert.Equal(t, DefaultTimezone, p.Timezone)
	})
}

func TestProfile_ValidatePort(t *testing.T) {
	p := validProfile()
	p.Port = 0
	assert.Error(t, p.Validate())

	p.Port = 70000
	assert.Error(t, p.Validate())
}

func TestProfile_FromEnv(t *testing.T) {
	t.Setenv("BOOKWISE_GOOGLE_CLIENT_ID", "env-id")
	t.Setenv("BOOKWISE_LLM_MODEL", "env-model")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "env-id", p.GoogleClientID)
	assert.Equal(t, "env-model", p.LLMModel)
	// Defaults applied when env is unset.
	assert.Equal(t, "https://api.openai.com/v1", p.LLMBaseURL)
	assert.Equal(t, DefaultTimezone, p.Timezone)
}

func TestProfile_CredentialDBPath(t *testing.T) {
	p := validProfile()
	assert.Empty(t, p.CredentialDBPath())

	p.Data = "/var/lib/bookwise"
	assert.Equal(t, "/var/lib/bookwise/bookwise_credentials.db", p.CredentialDBPath())
}

func TestProfile_IsDev(t *testing.T) {
	p := validProfile()
	assert.True(t, p.IsDev())
	p.Mode = "prod"
	assert.False(t, p.IsDev())
}
