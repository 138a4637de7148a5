package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var envKeys = []string{
	"TEST_SCENARIO", "DEBUG", "TEST_DURATION", "TASK_TICK_MS",
	"DISCORD_VOTER_ROLE_NAME", "NETWORK_NAME", "PUBLIC_DISCUSSIONS_CHANNEL", "REFERENDUM_FORUM_NAME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()

	assert.Equal(t, "default", cfg.Scenario)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 30*time.Second, cfg.Duration)
	assert.Equal(t, 100*time.Millisecond, cfg.TickDelay)
	assert.Equal(t, "referendas", cfg.Commands.ForumChannelName)
	assert.Equal(t, "dao-team-representative", cfg.Commands.VoterRoleName)
	assert.Equal(t, "polkadot", cfg.Commands.NetworkName)
	assert.Equal(t, "public-discussions", cfg.Commands.PublicDiscussionsChannel)
	assert.Zero(t, cfg.Commands.ForumChannelID)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_SCENARIO", "voting")
	t.Setenv("DEBUG", "yes")
	t.Setenv("TEST_DURATION", "5")
	t.Setenv("TASK_TICK_MS", "20")
	t.Setenv("DISCORD_VOTER_ROLE_NAME", "voter")
	t.Setenv("NETWORK_NAME", "kusama")
	t.Setenv("PUBLIC_DISCUSSIONS_CHANNEL", "public")
	t.Setenv("REFERENDUM_FORUM_NAME", "refs")

	cfg := LoadConfig()

	assert.Equal(t, "voting", cfg.Scenario)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.Duration)
	assert.Equal(t, 20*time.Millisecond, cfg.TickDelay)
	assert.Equal(t, "voter", cfg.Commands.VoterRoleName)
	assert.Equal(t, "kusama", cfg.Commands.NetworkName)
	assert.Equal(t, "public", cfg.Commands.PublicDiscussionsChannel)
	assert.Equal(t, "refs", cfg.Commands.ForumChannelName)
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a number", "soon"},
		{"zero", "0"},
		{"negative", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TEST_DURATION", tt.value)

			assert.Equal(t, 30*time.Second, LoadConfig().Duration)
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"on", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBool(tt.value))
		})
	}
}
