package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

func buildThemesKeyboard(themes []*entities.Theme) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range themes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(t.Name, buildThemeCallback(t.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildQuestionKeyboard(q *entities.Question) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		data := buildAnswerCallback(q.ThemeID, q.WordID, i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, data),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏁 Завершить", cbStop),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildAfterAnswerKeyboard(themeID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Следующий вопрос", buildNextCallback(themeID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏁 Завершить", cbStop),
		),
	)
}
