package entities

import "time"

// SessionType - kind of training run.
type SessionType string

const (
	SessionQuiz         SessionType = "quiz"
	SessionConversation SessionType = "conversation"
	SessionExercise     SessionType = "exercise"
)

// TrainingSession is an immutable summary of one completed training run.
// It is created once at session close and never mutated afterwards.
type TrainingSession struct {
	ID              int64
	UserID          int64
	SessionType     SessionType
	ThemeID         *int64 // nullable
	TotalQuestions  int    // correct + wrong
	CorrectAnswers  int
	WrongAnswers    int
	StartedAt       time.Time
	CompletedAt     time.Time
	DurationSeconds int
}
