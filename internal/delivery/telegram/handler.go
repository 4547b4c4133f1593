package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

type UserService interface {
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*entities.User, error)
}

type ProgressService interface {
	RecordAnswer(ctx context.Context, userID, wordID int64, isCorrect bool) (*entities.WordProgress, error)
}

type TrainingService interface {
	OpenOrContinue(userID int64, st entities.SessionType, themeID *int64)
	Close(ctx context.Context, userID int64) (*entities.TrainingSession, error)
}

type StatsService interface {
	Get(ctx context.Context, telegramID int64) (*entities.StatsSnapshot, error)
}

type QuizService interface {
	Themes(ctx context.Context) ([]*entities.Theme, error)
	GetTheme(ctx context.Context, id int64) (*entities.Theme, error)
	RandomIdiom(ctx context.Context) (*entities.Idiom, error)
	NextQuestion(ctx context.Context, userID, themeID int64) (*entities.Question, error)
	TakeQuestion(userID, wordID int64) (*entities.Question, bool)
}

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	userService     UserService
	progressService ProgressService
	trainingService TrainingService
	statsService    StatsService
	quizService     QuizService
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	userService UserService,
	progressService ProgressService,
	trainingService TrainingService,
	statsService StatsService,
	quizService QuizService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		userService:     userService,
		progressService: progressService,
		trainingService: trainingService,
		statsService:    statsService,
		quizService:     quizService,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	default:
		h.logger.Debug("update without message and callback")
		return
	}

	// One streak touch per inbound interaction, answer or not.
	user, err := h.userService.GetOrCreate(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("telegram_id", from.ID),
			zap.Error(err),
		)
		return
	}

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", user.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, user, update.CallbackQuery)
		return
	}

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.send(newMessage(chatID, msgWelcome))
		case "train":
			_ = h.withErrorHandling(h.trainHandler())(ctx, chatID)
		case "stats":
			_ = h.withErrorHandling(h.statsHandler(user.TelegramID))(ctx, chatID)
		case "stop":
			_ = h.withErrorHandling(h.stopHandler(user.ID))(ctx, chatID)
		case "idiom":
			_ = h.withErrorHandling(h.idiomHandler())(ctx, chatID)
		case "help":
			h.send(newMessage(chatID, msgHelp))
		default:
			h.send(newMessage(chatID, msgUnknownCommand))
		}
		return
	}

	h.send(newMessage(chatID, msgHelp))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message", zap.Error(err))
	}
}

// SendReminder implements the scheduler's notifier.
func (h *Handler) SendReminder(chatID int64, currentStreak int) error {
	msg := newMessage(chatID, reminderText(currentStreak))
	_, err := h.bot.Send(msg)
	return err
}
