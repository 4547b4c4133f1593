package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
	"github.com/mvoronin/parola-bot/internal/infra/postgres/repository"
)

func (h *Handler) trainHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		themes, err := h.quizService.Themes(ctx)
		if err != nil {
			return err
		}
		if len(themes) == 0 {
			h.send(newMessage(chatID, msgNoThemes))
			return nil
		}

		msg := newMessage(chatID, msgChooseTheme)
		msg.ReplyMarkup = buildThemesKeyboard(themes)
		h.send(msg)
		return nil
	}
}

func (h *Handler) statsHandler(telegramID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		snap, err := h.statsService.Get(ctx, telegramID)
		if errors.Is(err, repository.ErrUserNotFound) {
			h.send(newMessage(chatID, msgNoStatsYet))
			return nil
		}
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, renderStats(snap)))
		return nil
	}
}

func (h *Handler) stopHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		record, err := h.trainingService.Close(ctx, userID)
		if err != nil {
			return err
		}
		if record == nil {
			h.send(newMessage(chatID, msgNothingToFinish))
			return nil
		}

		text := fmt.Sprintf(msgSessionSummaryFmt,
			record.TotalQuestions,
			record.CorrectAnswers,
			record.WrongAnswers,
			record.DurationSeconds,
		)
		h.send(newMessage(chatID, text))
		return nil
	}
}

func (h *Handler) idiomHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		idiom, err := h.quizService.RandomIdiom(ctx)
		if errors.Is(err, repository.ErrIdiomNotFound) {
			h.send(newMessage(chatID, msgNoIdioms))
			return nil
		}
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, fmt.Sprintf(msgIdiomFmt, idiom.ItalianIdiom, idiom.RusIdiom)))
		return nil
	}
}

func renderStats(s *entities.StatsSnapshot) string {
	var sb strings.Builder
	sb.WriteString("📊 Ваша статистика\n\n")
	sb.WriteString(fmt.Sprintf("🎯 Уровень: %d (%d XP)\n", s.Level, s.ExperiencePoints))
	sb.WriteString(fmt.Sprintf("🔥 Серия дней: %d (рекорд: %d)\n", s.CurrentStreak, s.LongestStreak))
	sb.WriteString(fmt.Sprintf("✅ Правильных ответов: %d\n", s.TotalCorrect))
	sb.WriteString(fmt.Sprintf("❌ Неправильных ответов: %d\n", s.TotalWrong))
	sb.WriteString(fmt.Sprintf("📈 Точность: %.1f%%\n", s.Accuracy))
	sb.WriteString(fmt.Sprintf("🏋️ Тренировок: %d\n", s.TotalTrainings))
	sb.WriteString(fmt.Sprintf("📚 Выучено слов: %d\n\n", s.TotalWordsLearned))

	sb.WriteString("Слова по статусам:\n")
	for _, st := range entities.AllStatuses {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", statusTitle(st), s.WordsByStatus[st]))
	}

	return sb.String()
}

func statusTitle(st entities.Status) string {
	switch st {
	case entities.StatusNew:
		return "🆕 новые"
	case entities.StatusLearning:
		return "📖 изучаются"
	case entities.StatusLearned:
		return "✅ выучены"
	case entities.StatusMastered:
		return "🏆 освоены"
	default:
		return string(st)
	}
}
