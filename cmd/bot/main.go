package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/rolevault/rolevault/internal/api"
	"github.com/rolevault/rolevault/internal/bot"
	"github.com/rolevault/rolevault/internal/config"
	"github.com/rolevault/rolevault/internal/database"
	"github.com/rolevault/rolevault/internal/logger"
	"github.com/rolevault/rolevault/internal/notifier"
	"github.com/rolevault/rolevault/internal/store"
	"github.com/rolevault/rolevault/internal/sweeper"
	"go.uber.org/zap"
)

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to Database
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	st := store.New(db)

	// Open the Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		log.Fatal("failed to create discord session", zap.Error(err))
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	if err := session.Open(); err != nil {
		log.Fatal("failed to open discord session", zap.Error(err))
	}
	defer session.Close()
	log.Info("connected to discord",
		zap.String("user", session.State.User.Username),
		zap.String("id", session.State.User.ID))

	// Commands and notifications
	discordNotifier := notifier.NewDiscordNotifier(session)
	commandBot := bot.New(session, st, discordNotifier, log)
	if err := commandBot.Register(); err != nil {
		log.Fatal("failed to register commands", zap.Error(err))
	}

	// Expiry sweep
	revoker := bot.NewRoleRevoker(session, discordNotifier, log)
	sweep := sweeper.New(cfg.SweepEvery(), st, revoker, log)
	sweep.Start(context.Background())
	defer sweep.Stop()

	// Admin API
	r := chi.NewRouter()
	api.RegisterRoutes(r, cfg.APISecret, api.NewCodesHandler(st))
	go func() {
		log.Info("starting admin api", zap.String("port", cfg.APIPort))
		if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.APIPort), r); err != nil {
			log.Error("admin api stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
}
