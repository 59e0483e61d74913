package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ListenAddr:           ":3000",
		BadgerFilepath:       "/tmp/chimchat",
		ConnectionBufferSize: 32,
		HistoryReplay:        10,
		SummaryContext:       10,
		QuestionContext:      6,
		OpenAIKey:            "sk-test",
		CompletionTimeout:    45 * time.Second,
		SensorTimeout:        10 * time.Second,
		HealthInterval:       30 * time.Second,
	}
}

func Test_Validate_Accepts_A_Complete_Config(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func Test_Validate_Rejects_Broken_Configs(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		description string
		modify      func(c *Config)
	}{
		{"Missing API key", func(c *Config) { c.OpenAIKey = "" }},
		{"Missing database path", func(c *Config) { c.BadgerFilepath = "" }},
		{"Zero history window", func(c *Config) { c.HistoryReplay = 0 }},
		{"Negative buffer size", func(c *Config) { c.ConnectionBufferSize = -1 }},
		{"Malformed sensor URL", func(c *Config) { c.SensorBaseURL = "not a url" }},
		{"Zero completion timeout", func(c *Config) { c.CompletionTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			req.Error(c.Validate(), tt.description)
		})
	}
}

func Test_CharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	_, err = CharacterRune("")
	req.Error(err)
	_, err = CharacterRune("**")
	req.Error(err)
}
