package repository

import (
	"context"
	"fmt"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

// TrainingRepository persists completed training session summaries.
type TrainingRepository struct {
	db DBTX
}

func NewTrainingRepository(db DBTX) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Create inserts a completed session record and returns its id. Records
// are never updated afterwards.
func (r *TrainingRepository) Create(ctx context.Context, t *entities.TrainingSession) (int64, error) {
	query := `
		INSERT INTO training_sessions (
			user_id, session_type, theme_id,
			total_questions, correct_answers, wrong_answers,
			started_at, completed_at, duration_seconds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		t.UserID, string(t.SessionType), t.ThemeID,
		t.TotalQuestions, t.CorrectAnswers, t.WrongAnswers,
		t.StartedAt, t.CompletedAt, t.DurationSeconds,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create training session: %w", err)
	}

	return id, nil
}
