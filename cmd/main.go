package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	discordclient "krowbot/clients/discord"
	"krowbot/config"
	"krowbot/db"
	"krowbot/handlers"
	"krowbot/logger"
	"krowbot/middleware"
	"krowbot/services/donations"
	"krowbot/usecases/commands"
	"krowbot/usecases/notifications"
)

type Options struct {
	ConfigFile      string `long:"config" default:"config.json" description:"Path to the JSON file holding Discord ids"`
	EnvFile         string `long:"env-file" default:".env" description:"Path to the .env file holding secrets"`
	SkipCommandSync bool   `long:"skip-command-sync" description:"Do not overwrite the guild's slash commands on startup"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error().Err(err).Msg("❌ Fatal error")
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(opts.ConfigFile, opts.EnvFile)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %w", cfg.Timezone, err)
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.Alerts.SlackWebhookURL,
		Environment: cfg.Environment,
		AppName:     "krowbot",
		LogsURL:     cfg.Alerts.LogsURL,
	})

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		return err
	}

	donationsRepo := db.NewPostgresDonationsRepository(dbConn)
	donationsService := donations.NewDonationsService(donationsRepo)

	session, err := discordclient.NewSession(cfg.Discord.BotToken)
	if err != nil {
		return err
	}
	discordClient := discordclient.NewDiscordClient(session)

	donationNotifier := notifications.NewDonationNotifier(
		discordClient,
		cfg.Channels.DonationsChannelID,
		cfg.Kofi.PageURL,
		location,
	)
	donationDispatcher := notifications.NewDonationDispatcher(
		donationNotifier,
		cfg.NotificationWorkers,
		alertMiddleware.WrapBackgroundTask,
	)
	membershipNotifier := notifications.NewMembershipNotifier(discordClient, notifications.MembershipChannels{
		WelcomeChannelID: cfg.Channels.WelcomeChannelID,
		InfoChannelID:    cfg.Channels.InfoChannelID,
		RulesChannelID:   cfg.Channels.RulesChannelID,
	})

	definitions, err := commands.LoadDefinitions(cfg.CommandsDir)
	if err != nil {
		return err
	}
	registry := commands.NewRegistry(
		discordClient,
		definitions,
		commands.BuiltinHandlers(donationsService, cfg.Kofi.PageURL),
	)

	discordHandler := handlers.NewDiscordEventsHandler(
		session,
		discordClient,
		membershipNotifier,
		registry,
		alertMiddleware,
	)
	if err := discordHandler.StartBot(); err != nil {
		return err
	}

	if opts.SkipCommandSync {
		log.Info().Msg("⏭️ Skipping application command refresh")
	} else if err := registry.Sync(context.Background(), cfg.Discord.ApplicationID, cfg.Discord.GuildID); err != nil {
		log.Error().Err(err).Msg("❌ Failed to refresh application commands")
	}

	kofiHandler := handlers.NewKofiWebhookHandler(cfg.Kofi.VerificationToken, donationsService, donationDispatcher)

	router := mux.NewRouter()
	kofiHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Error().Err(err).Msg("❌ Failed to write health check response")
		}
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server, donationDispatcher.Stop, discordHandler.StopBot)
}

// handleGracefulShutdown serves until SIGINT/SIGTERM, then stops the server and
// runs the cleanups in order
func handleGracefulShutdown(server *http.Server, cleanups ...func()) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("✅ Ko-fi webhook listener is running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
		log.Info().Msg("🛑 Shutdown signal received, cleaning up...")
	case err := <-serverErr:
		for _, cleanup := range cleanups {
			cleanup()
		}
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownErr := server.Shutdown(ctx)
	if shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("❌ Server shutdown error")
	}

	for _, cleanup := range cleanups {
		cleanup()
	}

	if shutdownErr != nil {
		return shutdownErr
	}
	log.Info().Msg("✅ Server stopped gracefully")
	return nil
}
