package commands

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/rs/zerolog/log"

	"krowbot/clients"
	"krowbot/metrics"
	"krowbot/models"
)

const genericErrorReply = "There was an error while using this command!"

// Command dispatch results
const (
	resultOK      = "ok"
	resultError   = "error"
	resultPanic   = "panic"
	resultUnknown = "unknown"
)

// HandlerFunc produces the reply for one command invocation
type HandlerFunc func(ctx context.Context, invocation models.CommandInvocation) (models.CommandReply, error)

type boundCommand struct {
	definition models.CommandDefinition
	handler    HandlerFunc
}

// Registry holds the bound command set. It is immutable after construction.
type Registry struct {
	discordClient clients.DiscordClient
	commands      map[string]boundCommand
}

func NewRegistry(
	discordClient clients.DiscordClient,
	definitions []models.CommandDefinition,
	handlers map[string]HandlerFunc,
) *Registry {
	commands := make(map[string]boundCommand, len(definitions))
	for _, definition := range definitions {
		handler, ok := handlers[definition.Name]
		if !ok {
			log.Warn().Str("command", definition.Name).Msg("⚠️ Command has no handler - skipping")
			continue
		}
		commands[definition.Name] = boundCommand{definition: definition, handler: handler}
	}

	return &Registry{
		discordClient: discordClient,
		commands:      commands,
	}
}

// Names returns the bound command names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sync replaces the guild's command set with the bound definitions
func (r *Registry) Sync(ctx context.Context, appID, guildID string) error {
	log.Info().Str("guild_id", guildID).Int("count", len(r.commands)).Msg("📋 Starting to refresh application commands")

	definitions := make([]models.CommandDefinition, 0, len(r.commands))
	for _, name := range r.Names() {
		definitions = append(definitions, r.commands[name].definition)
	}

	registered, err := r.discordClient.OverwriteGuildCommands(ctx, appID, guildID, definitions)
	if err != nil {
		return fmt.Errorf("failed to refresh application commands for guild %s: %w", guildID, err)
	}

	log.Info().Int("count", registered).Msg("✅ Successfully reloaded application commands")
	return nil
}

// Dispatch runs the handler bound to the invoked command and replies with its result.
// Unknown commands are ignored.
func (r *Registry) Dispatch(ctx context.Context, invocation models.CommandInvocation) {
	command, ok := r.commands[invocation.CommandName]
	if !ok {
		log.Warn().Str("command", invocation.CommandName).Msg("⚠️ No command matching invocation was found")
		metrics.CommandInvocations.WithLabelValues(invocation.CommandName, resultUnknown).Inc()
		return
	}

	reply, result := r.run(ctx, command, invocation)
	metrics.CommandInvocations.WithLabelValues(invocation.CommandName, result).Inc()

	if err := r.discordClient.RespondToInteraction(ctx, invocation.Interaction, reply); err != nil {
		log.Error().Err(err).Str("command", invocation.CommandName).Msg("❌ Failed to respond to interaction")
	}
}

func (r *Registry) run(
	ctx context.Context,
	command boundCommand,
	invocation models.CommandInvocation,
) (reply models.CommandReply, result string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().
				Str("command", invocation.CommandName).
				Str("stack", string(debug.Stack())).
				Msgf("🚨 Command handler panicked: %v", recovered)
			reply = errorReply()
			result = resultPanic
		}
	}()

	reply, err := command.handler(ctx, invocation)
	if err != nil {
		log.Error().Err(err).Str("command", invocation.CommandName).Str("user_id", invocation.UserID).Msg("❌ Command handler failed")
		return errorReply(), resultError
	}

	log.Info().Str("command", invocation.CommandName).Str("user_id", invocation.UserID).Msg("✅ Command handled")
	return reply, resultOK
}

func errorReply() models.CommandReply {
	return models.CommandReply{Content: genericErrorReply, Ephemeral: true}
}
