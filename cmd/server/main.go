package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/akoka-events/crossover-tickets-api/internal/auth"
	"github.com/akoka-events/crossover-tickets-api/internal/checkin"
	"github.com/akoka-events/crossover-tickets-api/internal/config"
	"github.com/akoka-events/crossover-tickets-api/internal/database"
	"github.com/akoka-events/crossover-tickets-api/internal/feed"
	"github.com/akoka-events/crossover-tickets-api/internal/handlers"
	"github.com/akoka-events/crossover-tickets-api/internal/ledger"
	"github.com/akoka-events/crossover-tickets-api/internal/lifecycle"
	"github.com/akoka-events/crossover-tickets-api/internal/mailer"
	"github.com/akoka-events/crossover-tickets-api/internal/notifier"
	"github.com/akoka-events/crossover-tickets-api/internal/payments"
	"github.com/akoka-events/crossover-tickets-api/internal/queue"
	"github.com/akoka-events/crossover-tickets-api/internal/ticket"
	"github.com/akoka-events/crossover-tickets-api/internal/worker"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	log.Logger = logger

	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Core services
	store := payments.NewStore(db)
	svc := lifecycle.NewService(db, store, ledger.Pricebook{Unit: cfg.TicketPrice}, ticket.NewIssuer(cfg.QRAPIURL), &logger)

	// Optional collaborators: each degrades to nil when unconfigured.
	var ticketQueue *queue.Client
	if cfg.RabbitURL != "" {
		var err error
		ticketQueue, err = queue.NewClient(cfg.RabbitURL, cfg.TicketQueue)
		if err != nil {
			log.Warn().Err(err).Msg("ticket queue not initialized, e-ticket emails disabled")
			ticketQueue = nil
		}
	}

	var staffNotifier lifecycle.StaffNotifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Warn().Err(err).Msg("discord notifier not initialized")
		} else {
			staffNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	changeFeed := feed.New(cfg.RedisAddr, cfg.RedisPassword, cfg.FeedChannel)
	if changeFeed == nil && cfg.RedisAddr != "" {
		log.Warn().Str("addr", cfg.RedisAddr).Msg("redis unreachable, change feed disabled")
	}
	if changeFeed != nil {
		defer changeFeed.Close()
	}

	var lifecycleFeed lifecycle.ChangeFeed
	var checkinFeed checkin.ChangeFeed
	if changeFeed != nil {
		lifecycleFeed = changeFeed
		checkinFeed = changeFeed
	}

	var ticketNotifier lifecycle.TicketNotifier
	if ticketQueue != nil {
		ticketNotifier = ticketQueue
	}
	svc.WithNotifiers(ticketNotifier, staffNotifier, lifecycleFeed)

	gate := checkin.NewGate(db, checkinFeed, &logger)

	// Ticket email worker
	if ticketQueue != nil {
		reader := worker.NewReader(ticketQueue, svc, mailer.New(cfg, &logger))
		reader.Start(context.Background())
		defer reader.Stop()
		defer ticketQueue.Close()
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg)
	registrationHandler := handlers.NewRegistrationHandler(svc, authHandler)
	paymentHandler := handlers.NewPaymentHandler(svc, authHandler)
	checkInHandler := handlers.NewCheckInHandler(gate, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, registrationHandler, paymentHandler, checkInHandler)

	// Start Server
	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
