package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"krowbot/models"
)

var optionTypes = map[models.CommandOptionType]discordgo.ApplicationCommandOptionType{
	models.CommandOptionString:  discordgo.ApplicationCommandOptionString,
	models.CommandOptionInteger: discordgo.ApplicationCommandOptionInteger,
	models.CommandOptionNumber:  discordgo.ApplicationCommandOptionNumber,
	models.CommandOptionBoolean: discordgo.ApplicationCommandOptionBoolean,
	models.CommandOptionUser:    discordgo.ApplicationCommandOptionUser,
	models.CommandOptionChannel: discordgo.ApplicationCommandOptionChannel,
	models.CommandOptionRole:    discordgo.ApplicationCommandOptionRole,
}

func toChannel(channel *discordgo.Channel) models.DiscordChannel {
	return models.DiscordChannel{
		ID:      channel.ID,
		GuildID: channel.GuildID,
		Name:    channel.Name,
	}
}

func toMessageEmbed(embed models.DiscordEmbed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, len(embed.Fields))
	for i, field := range embed.Fields {
		fields[i] = &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		}
	}

	result := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Fields:      fields,
	}
	if embed.Footer != nil {
		result.Footer = &discordgo.MessageEmbedFooter{
			Text:    embed.Footer.Text,
			IconURL: embed.Footer.IconURL,
		}
	}
	return result
}

func toApplicationCommand(definition models.CommandDefinition) (*discordgo.ApplicationCommand, error) {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(definition.Options))
	for _, option := range definition.Options {
		optionType, ok := optionTypes[option.Type]
		if !ok {
			return nil, fmt.Errorf("command %s: option %s has unsupported type %q", definition.Name, option.Name, option.Type)
		}

		converted := &discordgo.ApplicationCommandOption{
			Type:        optionType,
			Name:        option.Name,
			Description: option.Description,
			Required:    option.Required,
			MinValue:    option.MinValue,
		}
		if option.MaxValue != nil {
			converted.MaxValue = *option.MaxValue
		}
		for _, choice := range option.Choices {
			converted.Choices = append(converted.Choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  choice.Name,
				Value: choice.Value,
			})
		}
		options = append(options, converted)
	}

	return &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        definition.Name,
		Description: definition.Description,
		Options:     options,
	}, nil
}

func toInteractionResponse(reply models.CommandReply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content: reply.Content,
	}
	for _, embed := range reply.Embeds {
		data.Embeds = append(data.Embeds, toMessageEmbed(embed))
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
