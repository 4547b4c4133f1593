package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

var ErrProgressNotFound = errors.New("word progress not found")

// ProgressRepository provides access to per-word progress rows.
type ProgressRepository struct {
	db DBTX
}

func NewProgressRepository(db DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetForUpdate retrieves the (user, word) row with a row-level lock so
// concurrent answer events for the same pair serialize.
func (r *ProgressRepository) GetForUpdate(ctx context.Context, userID, wordID int64) (*entities.WordProgress, error) {
	query := `
		SELECT user_id, word_id, status, correct_count, wrong_count, repetitions,
		       ease, interval_days, next_review_at, first_seen_at, last_reviewed_at
		FROM word_progress
		WHERE user_id = $1 AND word_id = $2
		FOR UPDATE
	`

	var p entities.WordProgress
	var status string

	err := r.db.QueryRow(ctx, query, userID, wordID).Scan(
		&p.UserID, &p.WordID, &status, &p.CorrectCount, &p.WrongCount, &p.Repetitions,
		&p.Ease, &p.IntervalDays, &p.NextReviewAt, &p.FirstSeenAt, &p.LastReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	p.Status = entities.Status(status)
	return &p, nil
}

// Upsert creates or updates a progress row.
func (r *ProgressRepository) Upsert(ctx context.Context, p *entities.WordProgress) error {
	query := `
		INSERT INTO word_progress (
			user_id, word_id, status, correct_count, wrong_count, repetitions,
			ease, interval_days, next_review_at, first_seen_at, last_reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			status = EXCLUDED.status,
			correct_count = EXCLUDED.correct_count,
			wrong_count = EXCLUDED.wrong_count,
			repetitions = EXCLUDED.repetitions,
			ease = EXCLUDED.ease,
			interval_days = EXCLUDED.interval_days,
			next_review_at = EXCLUDED.next_review_at,
			first_seen_at = COALESCE(word_progress.first_seen_at, EXCLUDED.first_seen_at),
			last_reviewed_at = EXCLUDED.last_reviewed_at
	`

	_, err := r.db.Exec(
		ctx,
		query,
		p.UserID, p.WordID, string(p.Status), p.CorrectCount, p.WrongCount, p.Repetitions,
		p.Ease, p.IntervalDays, p.NextReviewAt, p.FirstSeenAt, p.LastReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}

// CountByStatus returns per-status row counts for the user. Statuses with
// no rows are absent from the map.
func (r *ProgressRepository) CountByStatus(ctx context.Context, userID int64) (map[entities.Status]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM word_progress
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[entities.Status(status)] = n
	}

	return counts, rows.Err()
}

// CountInStatuses returns how many of the user's words sit in any of the
// given statuses.
func (r *ProgressRepository) CountInStatuses(ctx context.Context, userID int64, statuses []entities.Status) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM word_progress
		WHERE user_id = $1 AND status = ANY($2)
	`

	raw := make([]string, len(statuses))
	for i, st := range statuses {
		raw[i] = string(st)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, userID, raw).Scan(&n); err != nil {
		return 0, fmt.Errorf("count in statuses: %w", err)
	}

	return n, nil
}

// ListDueWordIDs returns word ids due for review, oldest first.
func (r *ProgressRepository) ListDueWordIDs(ctx context.Context, userID int64, now time.Time, limit int) ([]int64, error) {
	query := `
		SELECT word_id
		FROM word_progress
		WHERE user_id = $1
		  AND next_review_at IS NOT NULL
		  AND next_review_at <= $2
		  AND status IN ('learning', 'learned')
		ORDER BY next_review_at
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due words: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan due word id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
