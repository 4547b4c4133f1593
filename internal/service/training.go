package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

// activeSession accumulates counts for one open training run. It lives only
// in memory: per-answer progress is already durable in word progress rows,
// so losing an open session costs nothing but its summary record.
type activeSession struct {
	sessionType entities.SessionType
	themeID     *int64
	correct     int
	wrong       int
	startedAt   time.Time
}

// TrainingService owns the open training sessions, at most one per user,
// and persists a summary record when a session closes.
type TrainingService struct {
	tr     Transactor
	logger *zap.Logger
	now    Clock

	mu     sync.Mutex
	active map[int64]*activeSession
}

func NewTrainingService(tr Transactor, logger *zap.Logger, now Clock) *TrainingService {
	return &TrainingService{
		tr:     tr,
		logger: logger,
		now:    now,
		active: make(map[int64]*activeSession),
	}
}

// OpenOrContinue ensures the user has an open session. An already-open
// session is kept as is, including its counts.
func (s *TrainingService) OpenOrContinue(userID int64, st entities.SessionType, themeID *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[userID]; ok {
		return
	}
	s.active[userID] = &activeSession{
		sessionType: st,
		themeID:     themeID,
		startedAt:   s.now(),
	}
}

// NoteAnswer counts one answer into the user's open session, opening a
// plain quiz session implicitly on the first answer.
func (s *TrainingService) NoteAnswer(userID int64, isCorrect bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[userID]
	if !ok {
		sess = &activeSession{
			sessionType: entities.SessionQuiz,
			startedAt:   s.now(),
		}
		s.active[userID] = sess
	}

	if isCorrect {
		sess.correct++
	} else {
		sess.wrong++
	}
}

// Close finishes the user's open session. A session with no recorded
// answers is discarded without touching storage; otherwise the summary
// record and the user's lifetime training counter commit together. On a
// storage failure the session is put back so the user can retry closing.
func (s *TrainingService) Close(ctx context.Context, userID int64) (*entities.TrainingSession, error) {
	s.mu.Lock()
	sess, ok := s.active[userID]
	delete(s.active, userID)
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}
	if sess.correct+sess.wrong == 0 {
		s.logger.Debug("discarding empty training session", zap.Int64("user_id", userID))
		return nil, nil
	}

	now := s.now()
	record := &entities.TrainingSession{
		UserID:          userID,
		SessionType:     sess.sessionType,
		ThemeID:         sess.themeID,
		TotalQuestions:  sess.correct + sess.wrong,
		CorrectAnswers:  sess.correct,
		WrongAnswers:    sess.wrong,
		StartedAt:       sess.startedAt,
		CompletedAt:     now,
		DurationSeconds: int(now.Sub(sess.startedAt) / time.Second),
	}

	err := s.tr.WithinTx(ctx, func(ctx context.Context, uow UnitOfWork) error {
		id, err := uow.Trainings().Create(ctx, record)
		if err != nil {
			return err
		}
		record.ID = id

		u, err := uow.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		u.TotalTrainings++
		return uow.Users().Update(ctx, u)
	})
	if err != nil {
		s.restore(userID, sess)
		return nil, err
	}

	s.logger.Info("training session saved",
		zap.Int64("user_id", userID),
		zap.String("session_type", string(record.SessionType)),
		zap.Int("total_questions", record.TotalQuestions),
		zap.Int("correct_answers", record.CorrectAnswers),
	)

	return record, nil
}

// restore puts a session back after a failed close, unless a new one was
// opened in the meantime.
func (s *TrainingService) restore(userID int64, sess *activeSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[userID]; !ok {
		s.active[userID] = sess
	}
}
