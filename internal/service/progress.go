package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
	"github.com/mvoronin/parola-bot/internal/infra/postgres/repository"
)

// LearnedPolicy decides which statuses count into total_words_learned.
type LearnedPolicy string

const (
	LearnedAndMastered LearnedPolicy = "learned_and_mastered"
	LearnedOnly        LearnedPolicy = "learned_only"
)

// Statuses returns the statuses the policy counts. Unknown values fall back
// to the default policy.
func (p LearnedPolicy) Statuses() []entities.Status {
	if p == LearnedOnly {
		return []entities.Status{entities.StatusLearned}
	}
	return []entities.Status{entities.StatusLearned, entities.StatusMastered}
}

// AnswerSink receives per-answer notifications for the open training
// session, if any.
type AnswerSink interface {
	NoteAnswer(userID int64, isCorrect bool)
}

type ProgressService struct {
	tr       Transactor
	logger   *zap.Logger
	now      Clock
	learned  []entities.Status
	sessions AnswerSink // nil when no session tracking is wired
}

func NewProgressService(tr Transactor, logger *zap.Logger, now Clock, policy LearnedPolicy, sessions AnswerSink) *ProgressService {
	return &ProgressService{
		tr:       tr,
		logger:   logger,
		now:      now,
		learned:  policy.Statuses(),
		sessions: sessions,
	}
}

// RecordAnswer applies one answer event for a (user, word) pair: per-word
// counters and status, lifetime totals, XP and level - all inside one
// transaction. Both rows are locked for the duration, so concurrent answers
// for the same pair serialize and an event either fully commits or fully
// rolls back.
func (s *ProgressService) RecordAnswer(ctx context.Context, userID, wordID int64, isCorrect bool) (*entities.WordProgress, error) {
	now := s.now()

	var (
		out       *entities.WordProgress
		oldStatus entities.Status
		leveledUp bool
		level     int
	)

	err := s.tr.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		p, err := uow.Progress().GetForUpdate(ctx, userID, wordID)
		if errors.Is(err, repository.ErrProgressNotFound) {
			p = entities.NewWordProgress(userID, wordID, now)
		} else if err != nil {
			return err
		}

		oldStatus = p.Status
		p.Apply(isCorrect, now)

		if err := uow.Progress().Upsert(ctx, p); err != nil {
			return err
		}

		u, err := uow.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		leveledUp = u.ApplyAnswer(isCorrect)
		level = u.Level

		learned, err := uow.Progress().CountInStatuses(ctx, userID, s.learned)
		if err != nil {
			return fmt.Errorf("count learned words: %w", err)
		}
		u.TotalWordsLearned = learned

		if err := uow.Users().Update(ctx, u); err != nil {
			return err
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Status != oldStatus {
		s.logger.Info("word status changed",
			zap.Int64("user_id", userID),
			zap.Int64("word_id", wordID),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(out.Status)),
		)
	}
	if leveledUp {
		s.logger.Info("user leveled up",
			zap.Int64("user_id", userID),
			zap.Int("level", level),
		)
	}

	if s.sessions != nil {
		s.sessions.NoteAnswer(userID, isCorrect)
	}

	return out, nil
}
