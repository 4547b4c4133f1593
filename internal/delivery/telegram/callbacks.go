package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
	"github.com/mvoronin/parola-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, user *entities.User, cb *tgbotapi.CallbackQuery) {
	// Acknowledge first so the client stops the spinner.
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		h.logger.Debug("failed to answer callback", zap.Error(err))
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbTheme+":"):
		_ = h.withErrorHandling(h.startThemeHandler(user.ID, data))(ctx, chatID)
	case strings.HasPrefix(data, cbAns+":"):
		_ = h.withErrorHandling(h.answerHandler(user.ID, data))(ctx, chatID)
	case strings.HasPrefix(data, cbNext+":"):
		_ = h.withErrorHandling(h.nextQuestionHandler(user.ID, data))(ctx, chatID)
	case data == cbStop:
		_ = h.withErrorHandling(h.stopHandler(user.ID))(ctx, chatID)
	default:
		h.logger.Warn("unknown callback", zap.String("data", data))
	}
}

func (h *Handler) startThemeHandler(userID int64, data string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		themeID, err := parseIDCallback(data)
		if err != nil {
			return err
		}

		theme, err := h.quizService.GetTheme(ctx, themeID)
		if err != nil {
			return err
		}

		h.trainingService.OpenOrContinue(userID, entities.SessionQuiz, &themeID)
		h.send(newMessage(chatID, fmt.Sprintf(msgThemeStartedFmt, theme.Name)))

		return h.sendQuestion(ctx, chatID, userID, themeID)
	}
}

func (h *Handler) answerHandler(userID int64, data string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ans, err := parseAnswerCallback(data)
		if err != nil {
			return err
		}

		q, ok := h.quizService.TakeQuestion(userID, ans.wordID)
		if !ok {
			// Stale keyboard: the question was already answered or replaced.
			msg := newMessage(chatID, msgQuestionExpired)
			msg.ReplyMarkup = buildAfterAnswerKeyboard(ans.themeID)
			h.send(msg)
			return nil
		}

		isCorrect := ans.optionIndex == q.CorrectIndex
		progress, err := h.progressService.RecordAnswer(ctx, userID, q.WordID, isCorrect)
		if err != nil {
			return err
		}

		var text string
		if isCorrect {
			text = msgCorrectAnswer
		} else {
			text = fmt.Sprintf(msgWrongAnswerFmt, q.Prompt, q.CorrectAnswer)
		}
		text += "\n" + statusLine(progress)

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildAfterAnswerKeyboard(ans.themeID)
		h.send(msg)
		return nil
	}
}

func (h *Handler) nextQuestionHandler(userID int64, data string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		themeID, err := parseIDCallback(data)
		if err != nil {
			return err
		}
		return h.sendQuestion(ctx, chatID, userID, themeID)
	}
}

func (h *Handler) sendQuestion(ctx context.Context, chatID, userID, themeID int64) error {
	q, err := h.quizService.NextQuestion(ctx, userID, themeID)
	if errors.Is(err, service.ErrNoQuestionsAvailable) {
		h.send(newMessage(chatID, msgNoQuestions))
		return nil
	}
	if err != nil {
		return err
	}

	msg := newMessage(chatID, fmt.Sprintf(msgQuestionFmt, q.Prompt))
	msg.ReplyMarkup = buildQuestionKeyboard(q)
	h.send(msg)
	return nil
}

func statusLine(p *entities.WordProgress) string {
	return fmt.Sprintf(msgWordStatusFmt, statusTitle(p.Status), p.CorrectCount, p.WrongCount)
}
