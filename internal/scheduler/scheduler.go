package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

// UserSource lists users whose last activity falls into [from, to).
type UserSource interface {
	ListStreakExpiring(ctx context.Context, from, to time.Time) ([]*entities.User, error)
}

// Notifier sends a reminder message to a user's chat.
type Notifier interface {
	SendReminder(chatID int64, currentStreak int) error
}

// Scheduler runs the daily streak-reminder job: users active yesterday but
// not yet today get a nudge before the day-floor window closes.
type Scheduler struct {
	scheduler *gocron.Scheduler
	users     UserSource
	notifier  Notifier
	logger    *zap.Logger
}

func New(users UserSource, notifier Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start schedules the daily job at the given UTC time ("HH:MM") and runs
// the scheduler in the background.
func (s *Scheduler) Start(at string) error {
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.remindExpiringStreaks); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) remindExpiringStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	// Last activity between one and two days ago: one more idle day and
	// the streak resets.
	users, err := s.users.ListStreakExpiring(ctx, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	if err != nil {
		s.logger.Error("failed to list users with expiring streaks", zap.Error(err))
		return
	}

	for _, u := range users {
		if err := s.notifier.SendReminder(u.TelegramID, u.CurrentStreak); err != nil {
			s.logger.Error("failed to send streak reminder",
				zap.Int64("telegram_id", u.TelegramID),
				zap.Error(err),
			)
			continue
		}
	}

	s.logger.Info("streak reminders sent", zap.Int("count", len(users)))
}
