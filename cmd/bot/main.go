package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/config"
	"github.com/mvoronin/parola-bot/internal/delivery/telegram"
	"github.com/mvoronin/parola-bot/internal/infra/postgres"
	"github.com/mvoronin/parola-bot/internal/logger"
	"github.com/mvoronin/parola-bot/internal/scheduler"
	"github.com/mvoronin/parola-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	userService := service.NewUserService(store, zapLogger, service.UTCNow)
	trainingService := service.NewTrainingService(store, zapLogger, service.UTCNow)
	progressService := service.NewProgressService(
		store,
		zapLogger,
		service.UTCNow,
		service.LearnedPolicy(cfg.Progress.LearnedPolicy),
		trainingService,
	)
	statsService := service.NewStatsService(store)
	quizService := service.NewQuizService(store.Catalog(), store.Progress(), service.UTCNow)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zapLogger.Fatal("failed to create bot api", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Запустить бота"},
		{Command: "train", Description: "Начать тренировку"},
		{Command: "stop", Description: "Завершить тренировку"},
		{Command: "stats", Description: "Показать статистику"},
		{Command: "idiom", Description: "Случайная идиома"},
		{Command: "help", Description: "Помощь"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zapLogger.Warn("failed to set bot commands", zap.Error(err))
	}

	zapLogger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		zapLogger,
		userService,
		progressService,
		trainingService,
		statsService,
		quizService,
	)

	if cfg.Reminder.Enabled {
		sched := scheduler.New(store.Users(), handler, zapLogger)
		if err := sched.Start(cfg.Reminder.At); err != nil {
			zapLogger.Fatal("failed to start reminder scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zapLogger.Fatal("handler stopped", zap.Error(err))
	}

	zapLogger.Info("shutdown signal received")
}
