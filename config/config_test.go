package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	t.Setenv("KOFI_TOKEN", "kofi-token")
	t.Setenv("DB_URL", "postgres://localhost/krowbot?sslmode=disable")
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env.missing")
}

func TestLoadConfig_FromFileAndEnv(t *testing.T) {
	setRequiredEnv(t)
	path := writeConfigFile(t, `{
		"clientId": "app-1",
		"guildId": "guild-1",
		"kofi_channel_id": "chan-kofi",
		"welcomeChannel": "chan-welcome",
		"infoChannel": "chan-info",
		"rulesChannel": "chan-rules"
	}`)

	cfg, err := LoadConfig(path, missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "bot-token", cfg.Discord.BotToken)
	assert.Equal(t, "app-1", cfg.Discord.ApplicationID)
	assert.Equal(t, "guild-1", cfg.Discord.GuildID)
	assert.Equal(t, "chan-kofi", cfg.Channels.DonationsChannelID)
	assert.Equal(t, "chan-welcome", cfg.Channels.WelcomeChannelID)
	assert.Equal(t, "chan-info", cfg.Channels.InfoChannelID)
	assert.Equal(t, "chan-rules", cfg.Channels.RulesChannelID)
	assert.Equal(t, "kofi-token", cfg.Kofi.VerificationToken)

	// Defaults
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "commands", cfg.CommandsDir)
	assert.Equal(t, "Australia/Sydney", cfg.Timezone)
	assert.Equal(t, 4, cfg.NotificationWorkers)
	assert.Equal(t, "https://www.ko-fi.com/krow", cfg.Kofi.PageURL)
	assert.False(t, cfg.Alerts.IsConfigured())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_GUILD_ID", "guild-env")
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFICATION_WORKERS", "2")
	t.Setenv("SLACK_ALERT_WEBHOOK_URL", "https://hooks.slack.com/services/x")
	path := writeConfigFile(t, `{"clientId": "app-1", "guildId": "guild-file"}`)

	cfg, err := LoadConfig(path, missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "guild-env", cfg.Discord.GuildID)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.NotificationWorkers)
	assert.True(t, cfg.Alerts.IsConfigured())
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_CLIENT_ID", "app-env")
	t.Setenv("DISCORD_GUILD_ID", "guild-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "app-env", cfg.Discord.ApplicationID)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("KOFI_TOKEN", "")
	t.Setenv("DB_URL", "")
	path := writeConfigFile(t, `{}`)

	_, err := LoadConfig(path, missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_BOT_TOKEN")
	assert.Contains(t, err.Error(), "KOFI_TOKEN")
	assert.Contains(t, err.Error(), "DB_URL")
	assert.Contains(t, err.Error(), "clientId")
	assert.Contains(t, err.Error(), "guildId")
}

func TestLoadConfig_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KOFI_TOKEN=from-dotenv\nDB_URL=postgres://db\n"), 0o600))
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	// godotenv never overrides variables that are already set; t.Setenv restores them afterwards
	t.Setenv("KOFI_TOKEN", "")
	require.NoError(t, os.Unsetenv("KOFI_TOKEN"))
	t.Setenv("DB_URL", "")
	require.NoError(t, os.Unsetenv("DB_URL"))

	path := writeConfigFile(t, `{"clientId": "app-1", "guildId": "guild-1"}`)
	cfg, err := LoadConfig(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Kofi.VerificationToken)
	assert.Equal(t, "postgres://db", cfg.DatabaseURL)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	setRequiredEnv(t)
	path := writeConfigFile(t, `{not json`)

	_, err := LoadConfig(path, missingEnvFile(t))
	assert.Error(t, err)
}
