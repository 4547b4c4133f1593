package service

import (
	"context"
	"time"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

// Clock supplies the current UTC instant. Injected so tests can pin time.
type Clock func() time.Time

// UTCNow is the production clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error)
	// GetForUpdate loads a user by internal id, locking the row for the
	// duration of the surrounding transaction.
	GetForUpdate(ctx context.Context, id int64) (*entities.User, error)
	Create(ctx context.Context, u *entities.User) (int64, error)
	Update(ctx context.Context, u *entities.User) error
	// ListStreakExpiring returns users whose last activity falls into
	// [from, to) - the ones about to lose their streak.
	ListStreakExpiring(ctx context.Context, from, to time.Time) ([]*entities.User, error)
}

type ProgressRepository interface {
	// GetForUpdate locks the (user, word) row for the surrounding
	// transaction so concurrent answers for the same pair serialize.
	GetForUpdate(ctx context.Context, userID, wordID int64) (*entities.WordProgress, error)
	Upsert(ctx context.Context, p *entities.WordProgress) error
	CountByStatus(ctx context.Context, userID int64) (map[entities.Status]int, error)
	CountInStatuses(ctx context.Context, userID int64, statuses []entities.Status) (int, error)
	ListDueWordIDs(ctx context.Context, userID int64, now time.Time, limit int) ([]int64, error)
}

type TrainingRepository interface {
	Create(ctx context.Context, t *entities.TrainingSession) (int64, error)
}

type CatalogRepository interface {
	ListThemes(ctx context.Context) ([]*entities.Theme, error)
	GetTheme(ctx context.Context, id int64) (*entities.Theme, error)
	ListWordsByTheme(ctx context.Context, themeID int64) ([]*entities.Vocabulary, error)
	GetRandomIdiom(ctx context.Context) (*entities.Idiom, error)
}

// UnitOfWork bundles the repositories over one database handle - either the
// shared pool for plain reads or a single transaction inside WithinTx.
type UnitOfWork interface {
	Users() UserRepository
	Progress() ProgressRepository
	Trainings() TrainingRepository
}

// Transactor runs a function inside one transaction: every repository call
// made through the provided unit of work commits or rolls back atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
