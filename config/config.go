package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type DiscordConfig struct {
	BotToken      string
	ApplicationID string
	GuildID       string
}

type ChannelsConfig struct {
	WelcomeChannelID   string
	InfoChannelID      string
	RulesChannelID     string
	DonationsChannelID string
}

type KofiConfig struct {
	VerificationToken string
	PageURL           string
}

type AlertsConfig struct {
	SlackWebhookURL string
	LogsURL         string
}

// IsConfigured returns true if Slack alerting should be enabled
func (c AlertsConfig) IsConfigured() bool {
	return c.SlackWebhookURL != ""
}

type LoggingConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	DatabaseURL         string
	Port                string // Optional with default "8080"
	Environment         string
	CommandsDir         string
	Timezone            string
	NotificationWorkers int

	Discord  DiscordConfig
	Channels ChannelsConfig
	Kofi     KofiConfig
	Alerts   AlertsConfig
	Logging  LoggingConfig
}

// Keys read from config.json keep the names the bot has always used;
// every key can be overridden by the environment variable next to it.
var bindings = []struct {
	key string
	env string
}{
	{"token", "DISCORD_BOT_TOKEN"},
	{"clientId", "DISCORD_CLIENT_ID"},
	{"guildId", "DISCORD_GUILD_ID"},
	{"kofi_channel_id", "KOFI_CHANNEL_ID"},
	{"welcomeChannel", "WELCOME_CHANNEL_ID"},
	{"infoChannel", "INFO_CHANNEL_ID"},
	{"rulesChannel", "RULES_CHANNEL_ID"},
	{"kofi_token", "KOFI_TOKEN"},
	{"kofi_page_url", "KOFI_PAGE_URL"},
	{"db_url", "DB_URL"},
	{"port", "PORT"},
	{"environment", "ENVIRONMENT"},
	{"commands_dir", "COMMANDS_DIR"},
	{"timezone", "TIMEZONE"},
	{"notification_workers", "NOTIFICATION_WORKERS"},
	{"slack_alert_webhook_url", "SLACK_ALERT_WEBHOOK_URL"},
	{"server_logs_url", "SERVER_LOGS_URL"},
	{"log_level", "LOG_LEVEL"},
	{"log_format", "LOG_FORMAT"},
}

func LoadConfig(configPath, envFile string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Warn().Str("env_file", envFile).Msg("⚠️ Could not load .env file, continuing with system env vars")
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetDefault("port", "8080")
	v.SetDefault("environment", "dev")
	v.SetDefault("commands_dir", "commands")
	v.SetDefault("timezone", "Australia/Sydney")
	v.SetDefault("notification_workers", 4)
	v.SetDefault("kofi_page_url", "https://www.ko-fi.com/krow")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", b.env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		log.Warn().Str("config_file", configPath).Msg("⚠️ Config file not found, using environment only")
	}

	cfg := &AppConfig{
		DatabaseURL:         v.GetString("db_url"),
		Port:                v.GetString("port"),
		Environment:         v.GetString("environment"),
		CommandsDir:         v.GetString("commands_dir"),
		Timezone:            v.GetString("timezone"),
		NotificationWorkers: v.GetInt("notification_workers"),
		Discord: DiscordConfig{
			BotToken:      v.GetString("token"),
			ApplicationID: v.GetString("clientId"),
			GuildID:       v.GetString("guildId"),
		},
		Channels: ChannelsConfig{
			WelcomeChannelID:   v.GetString("welcomeChannel"),
			InfoChannelID:      v.GetString("infoChannel"),
			RulesChannelID:     v.GetString("rulesChannel"),
			DonationsChannelID: v.GetString("kofi_channel_id"),
		},
		Kofi: KofiConfig{
			VerificationToken: v.GetString("kofi_token"),
			PageURL:           v.GetString("kofi_page_url"),
		},
		Alerts: AlertsConfig{
			SlackWebhookURL: v.GetString("slack_alert_webhook_url"),
			LogsURL:         v.GetString("server_logs_url"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Alerts.IsConfigured() {
		log.Info().Msg("✅ Slack error alerts configured")
	} else {
		log.Warn().Msg("⚠️ Slack error alerts not configured - errors will only be logged")
	}

	return cfg, nil
}

func (c *AppConfig) validate() error {
	var missing []string
	if c.Discord.BotToken == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if c.Kofi.VerificationToken == "" {
		missing = append(missing, "KOFI_TOKEN")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.Discord.ApplicationID == "" {
		missing = append(missing, "clientId")
	}
	if c.Discord.GuildID == "" {
		missing = append(missing, "guildId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.NotificationWorkers < 1 {
		return fmt.Errorf("NOTIFICATION_WORKERS must be at least 1, got %d", c.NotificationWorkers)
	}
	return nil
}
