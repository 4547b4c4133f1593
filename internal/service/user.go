package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
	"github.com/mvoronin/parola-bot/internal/infra/postgres/repository"
)

type UserService struct {
	tr     Transactor
	logger *zap.Logger
	now    Clock
}

func NewUserService(tr Transactor, logger *zap.Logger, now Clock) *UserService {
	return &UserService{tr: tr, logger: logger, now: now}
}

// GetOrCreate resolves a user by telegram id, creating them on first
// contact, refreshing the display fields and advancing the daily streak.
// Called once per inbound interaction, not once per answer.
func (s *UserService) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*entities.User, error) {
	now := s.now()

	var out *entities.User
	err := s.tr.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		u, err := uow.Users().GetByTelegramID(ctx, telegramID)
		if errors.Is(err, repository.ErrUserNotFound) {
			u = entities.NewUser(telegramID, username, firstName, lastName, now)
			id, err := uow.Users().Create(ctx, u)
			if err != nil {
				return err
			}
			u.ID = id
			s.logger.Info("created new user", zap.Int64("telegram_id", telegramID))
			out = u
			return nil
		}
		if err != nil {
			return err
		}

		if u.NormalizeDerived() {
			s.logger.Warn("user derived fields were inconsistent, recomputed",
				zap.Int64("user_id", u.ID),
				zap.Int("level", u.Level),
				zap.Int("experience_points", u.ExperiencePoints),
			)
		}

		if u.Username != username || u.FirstName != firstName || u.LastName != lastName {
			u.Username = username
			u.FirstName = firstName
			u.LastName = lastName
		}

		u.TouchStreak(now)

		if err := uow.Users().Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
