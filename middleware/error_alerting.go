package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"krowbot/metrics"
)

const (
	boundaryHTTP       = "http"
	boundaryDiscord    = "discord"
	boundaryBackground = "background"

	slackSendTimeout = 10 * time.Second
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	postWebhook   func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // same error at most once per 10min
		postWebhook:   slack.PostWebhookContext,
	}
}

// HTTPMiddleware recovers panics in HTTP handlers and answers 500
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				m.handlePanic(boundaryHTTP, fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), recovered)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask alerts on task errors and recovers task panics
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() (err error) {
		taskContext := fmt.Sprintf("Background task: %s", taskName)
		defer func() {
			if recovered := recover(); recovered != nil {
				m.handlePanic(boundaryBackground, taskContext, recovered)
				err = fmt.Errorf("%s panicked: %v", taskName, recovered)
			}
		}()

		if err := task(); err != nil {
			m.alertOnError(err, taskContext)
			return err
		}
		return nil
	}
}

// WrapDiscordHandler recovers panics raised by a discordgo event handler. The
// returned function keeps the handler's signature so discordgo can still infer
// the event type it subscribes to.
func WrapDiscordHandler[E any](
	m *ErrorAlertMiddleware,
	handlerName string,
	handler func(*discordgo.Session, E),
) func(*discordgo.Session, E) {
	return func(s *discordgo.Session, event E) {
		defer func() {
			if recovered := recover(); recovered != nil {
				m.handlePanic(boundaryDiscord, fmt.Sprintf("Discord handler: %s", handlerName), recovered)
			}
		}()
		handler(s, event)
	}
}

// Core error alerting logic
func (m *ErrorAlertMiddleware) alertOnError(err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return
	}

	go m.sendSlackAlert(errorMsg, source)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) handlePanic(boundary, source string, recovered any) {
	errorMsg := fmt.Sprintf("%s: PANIC - %v", source, recovered)
	metrics.RecoveredPanics.WithLabelValues(boundary).Inc()
	log.Error().Str("stack", string(debug.Stack())).Msgf("❌ %s", errorMsg)
	go m.sendSlackAlert(errorMsg, source+" (PANIC)")
}

func (m *ErrorAlertMiddleware) buildAlert(errorMsg, source string) *slack.WebhookMessage {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
			true, false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", source), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil, nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil, nil,
		))
	}

	return &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, source string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	ctx, cancel := context.WithTimeout(context.Background(), slackSendTimeout)
	defer cancel()

	if err := m.postWebhook(ctx, m.config.WebhookURL, m.buildAlert(errorMsg, source)); err != nil {
		log.Error().Err(err).Msg("❌ Failed to send Slack alert")
	}
}
