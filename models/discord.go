package models

import "fmt"

type DiscordEmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type DiscordEmbedFooter struct {
	Text    string
	IconURL string
}

// DiscordEmbed is a rich message independent of the Discord SDK types
type DiscordEmbed struct {
	Title       string
	Description string
	Color       int
	Fields      []DiscordEmbedField
	Footer      *DiscordEmbedFooter
}

type DiscordChannel struct {
	ID      string
	GuildID string
	Name    string
}

// Mention renders the channel the way Discord links it in message content
func (c DiscordChannel) Mention() string {
	return fmt.Sprintf("<#%s>", c.ID)
}

// MemberEvent describes a member joining or leaving a guild
type MemberEvent struct {
	GuildID  string
	UserID   string
	Username string
	IsBot    bool
}

// Mention renders the member the way Discord links it in message content
func (e MemberEvent) Mention() string {
	return fmt.Sprintf("<@%s>", e.UserID)
}
