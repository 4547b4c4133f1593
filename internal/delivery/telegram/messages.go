package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgWelcome = "Ciao! 🇮🇹 Я помогу выучить итальянские слова.\n\n" +
		"/train — начать тренировку\n" +
		"/stats — ваша статистика\n" +
		"/idiom — случайная идиома\n" +
		"/help — помощь"

	msgHelp = "Команды:\n" +
		"/train — выбрать тему и начать тренировку\n" +
		"/stop — завершить тренировку\n" +
		"/stats — статистика и прогресс\n" +
		"/idiom — случайная итальянская идиома"

	msgUnknownCommand = "Неизвестная команда. Попробуйте /help"
	msgInternalError  = "Что-то пошло не так, попробуйте ещё раз 🙏"

	msgChooseTheme     = "Выберите тему для тренировки:"
	msgThemeStartedFmt = "Тема «%s». Поехали! 🚀"
	msgNoThemes        = "Темы пока не загружены, загляните позже."
	msgNoQuestions     = "В этой теме пока нет слов."
	msgNoStatsYet      = "Статистики ещё нет — начните тренировку: /train"
	msgNothingToFinish = "Нет активной тренировки. Начать: /train"
	msgQuestionExpired = "Этот вопрос уже закрыт."
	msgNoIdioms        = "Идиомы пока не загружены."

	msgQuestionFmt    = "Как переводится слово «%s»?"
	msgCorrectAnswer  = "Верно! ✅"
	msgWrongAnswerFmt = "Неправильно! ❌\n«%s» — «%s»"
	msgWordStatusFmt  = "Статус слова: %s (✅ %d / ❌ %d)"

	msgSessionSummaryFmt = "🏁 Тренировка завершена!\n\n" +
		"Вопросов: %d\n✅ Правильно: %d\n❌ Неправильно: %d\n⏱ Время: %d сек."

	msgIdiomFmt = "🇮🇹 %s\n🇷🇺 %s"
)

func reminderText(currentStreak int) string {
	return fmt.Sprintf(
		"🔥 Ваша серия — %d дн. — сгорит сегодня!\nПройдите короткую тренировку: /train",
		currentStreak,
	)
}

func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}
