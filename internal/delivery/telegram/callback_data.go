package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback data formats, kept short for Telegram's 64-byte limit. Answer
// buttons carry only the chosen option index; correctness is resolved
// server-side against the outstanding question.
//
//	theme:<themeID>                      - start training on a theme
//	ans:<themeID>:<wordID>:<optionIdx>   - chosen option for a question
//	next:<themeID>                       - next question for the theme
//	stop                                 - finish the session
const (
	cbTheme = "theme"
	cbAns   = "ans"
	cbNext  = "next"
	cbStop  = "stop"
)

func buildThemeCallback(themeID int64) string {
	return fmt.Sprintf("%s:%d", cbTheme, themeID)
}

func buildAnswerCallback(themeID, wordID int64, optionIndex int) string {
	return fmt.Sprintf("%s:%d:%d:%d", cbAns, themeID, wordID, optionIndex)
}

func buildNextCallback(themeID int64) string {
	return fmt.Sprintf("%s:%d", cbNext, themeID)
}

type answerCallback struct {
	themeID     int64
	wordID      int64
	optionIndex int
}

func parseAnswerCallback(data string) (answerCallback, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 {
		return answerCallback{}, fmt.Errorf("malformed answer callback: %q", data)
	}

	themeID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return answerCallback{}, fmt.Errorf("parse theme id: %w", err)
	}
	wordID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return answerCallback{}, fmt.Errorf("parse word id: %w", err)
	}
	optionIndex, err := strconv.Atoi(parts[3])
	if err != nil {
		return answerCallback{}, fmt.Errorf("parse option index: %w", err)
	}

	return answerCallback{
		themeID:     themeID,
		wordID:      wordID,
		optionIndex: optionIndex,
	}, nil
}

func parseIDCallback(data string) (int64, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed callback: %q", data)
	}
	return strconv.ParseInt(parts[1], 10, 64)
}
