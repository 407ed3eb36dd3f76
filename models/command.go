package models

type CommandOptionType string

const (
	CommandOptionString  CommandOptionType = "string"
	CommandOptionInteger CommandOptionType = "integer"
	CommandOptionNumber  CommandOptionType = "number"
	CommandOptionBoolean CommandOptionType = "boolean"
	CommandOptionUser    CommandOptionType = "user"
	CommandOptionChannel CommandOptionType = "channel"
	CommandOptionRole    CommandOptionType = "role"
)

type CommandChoice struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

type CommandOption struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Type        CommandOptionType `yaml:"type" json:"type"`
	Required    bool              `yaml:"required" json:"required"`
	MinValue    *float64          `yaml:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue    *float64          `yaml:"max_value,omitempty" json:"max_value,omitempty"`
	Choices     []CommandChoice   `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// CommandDefinition is the parameter schema of one slash command, loaded from a definition file
type CommandDefinition struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Options     []CommandOption `yaml:"options,omitempty" json:"options,omitempty"`
}

// InteractionRef identifies an interaction so it can be answered
type InteractionRef struct {
	ID    string
	AppID string
	Token string
}

// CommandInvocation is a user invoking a registered slash command
type CommandInvocation struct {
	Interaction InteractionRef
	CommandName string
	Options     map[string]any
	GuildID     string
	ChannelID   string
	UserID      string
	Username    string
}

// IntOption returns the named option as an int, falling back to def when absent
func (i CommandInvocation) IntOption(name string, def int) int {
	switch v := i.Options[name].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// CommandReply is what a command handler wants sent back to the invoking user
type CommandReply struct {
	Content   string
	Embeds    []DiscordEmbed
	Ephemeral bool
}
