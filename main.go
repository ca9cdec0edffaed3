package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chatguard/internal/classifier_client"
	"chatguard/internal/config"
	"chatguard/internal/moderation"
	"chatguard/internal/repository"
	"chatguard/internal/server"
	"chatguard/internal/service"
	"chatguard/internal/state"
	"chatguard/internal/telegram_bot"
	"chatguard/internal/word_filter"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Admins configured", zap.Int64s("ids", cfg.Telegram.Admins))

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	wordRepo := repository.NewWordRepository(db, logger)
	eventRepo := repository.NewEventRepository(db, logger)
	authRepo := repository.NewAuthRepository(db, logger)

	// Runtime moderation state, word sets and classifier topics
	st := state.New(cfg.Filters.Profanity, cfg.Filters.Advertising, cfg.Filters.Semantic, cfg.Classifier.Model)
	store := word_filter.NewStore()
	topics := classifier_client.NewRegistry(classifier_client.DefaultTopics())

	// Initialize classifier client
	classifier := classifier_client.NewClient(
		cfg.Classifier.URL,
		topics,
		st,
		time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second,
		logger,
	)

	// Control-plane service: seeds the word store and loads it into memory
	control := service.NewControlService(wordRepo, eventRepo, store, st, topics, logger)
	if err := control.Seed(cfg.SeedWords.Profanity, cfg.SeedWords.Advertising); err != nil {
		logger.Fatal("Failed to seed word lists", zap.Error(err))
	}

	resolver := moderation.NewResolver(store, classifier, st, logger)

	// Initialize Telegram bot (owns the enforcement controller)
	bot, err := telegram_bot.NewBot(cfg, control, resolver, eventRepo, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram bot", zap.Error(err))
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := bot.Start(ctx); err != nil {
			logger.Error("Telegram bot failed", zap.Error(err))
		}
	}()

	// Initialize and run the HTTP control API
	authService := service.NewAuthService(authRepo, logger)
	srv := server.NewServer(authService, control, logger)
	go srv.Run(cfg.Server.Port)

	<-ctx.Done()
	bot.Close()
	logger.Info("Application stopped.")
}
