package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `
	id, telegram_id, username, first_name, last_name,
	total_correct_answers, total_wrong_answers, total_words_learned, total_trainings,
	current_streak, longest_streak, last_activity_at,
	level, experience_points, created_at
`

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository over a pool or transaction.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// GetByTelegramID retrieves a user by their telegram identity.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	u, err := r.scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}
	return u, nil
}

// GetForUpdate retrieves a user by internal id with a row-level lock held
// until the surrounding transaction ends.
func (r *UserRepository) GetForUpdate(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	u, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	return u, nil
}

// Create inserts a new user and returns the assigned internal id.
func (r *UserRepository) Create(ctx context.Context, u *entities.User) (int64, error) {
	query := `
		INSERT INTO users (
			telegram_id, username, first_name, last_name,
			total_correct_answers, total_wrong_answers, total_words_learned, total_trainings,
			current_streak, longest_streak, last_activity_at,
			level, experience_points, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		u.TelegramID, u.Username, u.FirstName, u.LastName,
		u.TotalCorrectAnswers, u.TotalWrongAnswers, u.TotalWordsLearned, u.TotalTrainings,
		u.CurrentStreak, u.LongestStreak, u.LastActivityAt,
		u.Level, u.ExperiencePoints, u.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

// Update persists every mutable user field.
func (r *UserRepository) Update(ctx context.Context, u *entities.User) error {
	query := `
		UPDATE users SET
			username = $1,
			first_name = $2,
			last_name = $3,
			total_correct_answers = $4,
			total_wrong_answers = $5,
			total_words_learned = $6,
			total_trainings = $7,
			current_streak = $8,
			longest_streak = $9,
			last_activity_at = $10,
			level = $11,
			experience_points = $12
		WHERE id = $13
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		u.Username, u.FirstName, u.LastName,
		u.TotalCorrectAnswers, u.TotalWrongAnswers, u.TotalWordsLearned, u.TotalTrainings,
		u.CurrentStreak, u.LongestStreak, u.LastActivityAt,
		u.Level, u.ExperiencePoints,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListStreakExpiring returns users whose last activity falls into [from, to).
func (r *UserRepository) ListStreakExpiring(ctx context.Context, from, to time.Time) ([]*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE last_activity_at >= $1 AND last_activity_at < $2
		ORDER BY last_activity_at
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list streak expiring: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *UserRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName,
		&u.TotalCorrectAnswers, &u.TotalWrongAnswers, &u.TotalWordsLearned, &u.TotalTrainings,
		&u.CurrentStreak, &u.LongestStreak, &u.LastActivityAt,
		&u.Level, &u.ExperiencePoints, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
