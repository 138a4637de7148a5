package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"daosim/core/log"
	"daosim/usecases/commands"

	"github.com/joho/godotenv"
)

const (
	defaultScenario = "default"
	defaultDuration = 30 * time.Second
	defaultTickMS   = 100
)

type AppConfig struct {
	// Scenario run settings
	Scenario  string
	Debug     bool
	Duration  time.Duration
	TickDelay time.Duration

	// Command settings
	Commands commands.Config
}

func LoadConfig() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ Could not load .env file, continuing with system env vars")
	}

	defaults := commands.DefaultConfig()
	return &AppConfig{
		Scenario:  getEnvWithDefault("TEST_SCENARIO", defaultScenario),
		Debug:     parseBool(getEnvWithDefault("DEBUG", "")),
		Duration:  time.Duration(getEnvInt("TEST_DURATION", int(defaultDuration/time.Second))) * time.Second,
		TickDelay: time.Duration(getEnvInt("TASK_TICK_MS", defaultTickMS)) * time.Millisecond,

		Commands: commands.Config{
			ForumChannelName:         getEnvWithDefault("REFERENDUM_FORUM_NAME", defaults.ForumChannelName),
			VoterRoleName:            getEnvWithDefault("DISCORD_VOTER_ROLE_NAME", defaults.VoterRoleName),
			NetworkName:              getEnvWithDefault("NETWORK_NAME", defaults.NetworkName),
			PublicDiscussionsChannel: getEnvWithDefault("PUBLIC_DISCUSSIONS_CHANNEL", defaults.PublicDiscussionsChannel),
		},
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset, malformed or not positive.
func getEnvInt(key string, defaultValue int) int {
	raw := getEnvWithDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Warn("⚠️ Invalid %s value %q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
