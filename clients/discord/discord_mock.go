package discord

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"krowbot/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetBotUserID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDiscordClient) GetChannel(ctx context.Context, channelID string) (mo.Option[models.DiscordChannel], error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(mo.Option[models.DiscordChannel]), args.Error(1)
}

func (m *MockDiscordClient) SendEmbed(ctx context.Context, channelID string, embed models.DiscordEmbed) error {
	args := m.Called(ctx, channelID, embed)
	return args.Error(0)
}

func (m *MockDiscordClient) OverwriteGuildCommands(
	ctx context.Context,
	appID, guildID string,
	definitions []models.CommandDefinition,
) (int, error) {
	args := m.Called(ctx, appID, guildID, definitions)
	return args.Int(0), args.Error(1)
}

func (m *MockDiscordClient) RespondToInteraction(
	ctx context.Context,
	interaction models.InteractionRef,
	reply models.CommandReply,
) error {
	args := m.Called(ctx, interaction, reply)
	return args.Error(0)
}

func (m *MockDiscordClient) SetActivity(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
