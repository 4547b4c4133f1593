package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvoronin/parola-bot/internal/infra/postgres/repository"
	"github.com/mvoronin/parola-bot/internal/service"
)

// Store is the transactional storage collaborator. Used directly it serves
// plain reads over the pool; WithinTx hands out the same repositories bound
// to a single transaction, committed or rolled back as a unit.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Users() service.UserRepository {
	return repository.NewUserRepository(s.pool)
}

func (s *Store) Progress() service.ProgressRepository {
	return repository.NewProgressRepository(s.pool)
}

func (s *Store) Trainings() service.TrainingRepository {
	return repository.NewTrainingRepository(s.pool)
}

func (s *Store) Catalog() service.CatalogRepository {
	return repository.NewCatalogRepository(s.pool)
}

// WithinTx runs fn inside one transaction. Any error from fn rolls the
// whole unit of work back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, uow service.UnitOfWork) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &txUnitOfWork{db: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type txUnitOfWork struct {
	db repository.DBTX
}

func (u *txUnitOfWork) Users() service.UserRepository {
	return repository.NewUserRepository(u.db)
}

func (u *txUnitOfWork) Progress() service.ProgressRepository {
	return repository.NewProgressRepository(u.db)
}

func (u *txUnitOfWork) Trainings() service.TrainingRepository {
	return repository.NewTrainingRepository(u.db)
}
