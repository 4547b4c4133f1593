package service

import (
	"context"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

// StatsService projects a user's committed state into a display snapshot.
// Pure reads over the shared pool, no caching.
type StatsService struct {
	db UnitOfWork
}

func NewStatsService(db UnitOfWork) *StatsService {
	return &StatsService{db: db}
}

// Get returns the snapshot for a telegram identity. Unknown users surface
// repository.ErrUserNotFound - "no stats yet" is an expected case the
// caller branches on.
func (s *StatsService) Get(ctx context.Context, telegramID int64) (*entities.StatsSnapshot, error) {
	u, err := s.db.Users().GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	counts, err := s.db.Progress().CountByStatus(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[entities.Status]int, len(entities.AllStatuses))
	for _, st := range entities.AllStatuses {
		byStatus[st] = counts[st]
	}

	return &entities.StatsSnapshot{
		TotalWordsLearned: u.TotalWordsLearned,
		Accuracy:          u.Accuracy(),
		CurrentStreak:     u.CurrentStreak,
		LongestStreak:     u.LongestStreak,
		Level:             u.Level,
		ExperiencePoints:  u.ExperiencePoints,
		TotalTrainings:    u.TotalTrainings,
		TotalCorrect:      u.TotalCorrectAnswers,
		TotalWrong:        u.TotalWrongAnswers,
		WordsByStatus:     byStatus,
	}, nil
}
