package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

type recordedAnswer struct {
	userID    int64
	isCorrect bool
}

type sinkRecorder struct {
	answers []recordedAnswer
}

func (s *sinkRecorder) NoteAnswer(userID int64, isCorrect bool) {
	s.answers = append(s.answers, recordedAnswer{userID, isCorrect})
}

func newProgressFixture(t *testing.T) (*fakeStore, *entities.User, time.Time) {
	t.Helper()
	store := newFakeStore()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	u := store.addUser(entities.NewUser(100, "mario", "Mario", "Rossi", now))
	return store, u, now
}

func TestRecordAnswer_FirstAnswerCreatesProgress(t *testing.T) {
	store, u, now := newProgressFixture(t)
	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, nil)

	p, err := svc.RecordAnswer(context.Background(), u.ID, 42, true)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusNew, p.Status)
	assert.Equal(t, 1, p.CorrectCount)
	assert.Equal(t, now, p.FirstSeenAt)

	stored := store.progress[progressKey{u.ID, 42}]
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.CorrectCount)
}

func TestRecordAnswer_UpdatesUserTotals(t *testing.T) {
	store, u, now := newProgressFixture(t)
	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, nil)

	_, err := svc.RecordAnswer(context.Background(), u.ID, 42, true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer(context.Background(), u.ID, 42, false)
	require.NoError(t, err)

	stored := store.users[u.ID]
	assert.Equal(t, 1, stored.TotalCorrectAnswers)
	assert.Equal(t, 1, stored.TotalWrongAnswers)
	assert.Equal(t, 12, stored.ExperiencePoints)
}

func TestRecordAnswer_PromotionFeedsLearnedTotal(t *testing.T) {
	store, u, now := newProgressFixture(t)
	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, nil)

	for i := 0; i < 7; i++ {
		_, err := svc.RecordAnswer(context.Background(), u.ID, 42, true)
		require.NoError(t, err)
	}

	assert.Equal(t, entities.StatusLearned, store.progress[progressKey{u.ID, 42}].Status)
	assert.Equal(t, 1, store.users[u.ID].TotalWordsLearned)
}

func TestRecordAnswer_LearnedOnlyPolicy(t *testing.T) {
	store, u, now := newProgressFixture(t)
	store.progress[progressKey{u.ID, 1}] = &entities.WordProgress{
		UserID: u.ID, WordID: 1, Status: entities.StatusLearned, CorrectCount: 7,
	}
	store.progress[progressKey{u.ID, 2}] = &entities.WordProgress{
		UserID: u.ID, WordID: 2, Status: entities.StatusMastered, CorrectCount: 20,
	}

	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedOnly, nil)

	_, err := svc.RecordAnswer(context.Background(), u.ID, 3, true)
	require.NoError(t, err)

	assert.Equal(t, 1, store.users[u.ID].TotalWordsLearned)
}

func TestRecordAnswer_DefaultPolicyCountsMastered(t *testing.T) {
	store, u, now := newProgressFixture(t)
	store.progress[progressKey{u.ID, 1}] = &entities.WordProgress{
		UserID: u.ID, WordID: 1, Status: entities.StatusLearned, CorrectCount: 7,
	}
	store.progress[progressKey{u.ID, 2}] = &entities.WordProgress{
		UserID: u.ID, WordID: 2, Status: entities.StatusMastered, CorrectCount: 20,
	}

	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, nil)

	_, err := svc.RecordAnswer(context.Background(), u.ID, 3, true)
	require.NoError(t, err)

	assert.Equal(t, 2, store.users[u.ID].TotalWordsLearned)
}

func TestRecordAnswer_NotifiesSessionSink(t *testing.T) {
	store, u, now := newProgressFixture(t)
	sink := &sinkRecorder{}
	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, sink)

	_, err := svc.RecordAnswer(context.Background(), u.ID, 42, true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer(context.Background(), u.ID, 42, false)
	require.NoError(t, err)

	require.Len(t, sink.answers, 2)
	assert.Equal(t, recordedAnswer{u.ID, true}, sink.answers[0])
	assert.Equal(t, recordedAnswer{u.ID, false}, sink.answers[1])
}

func TestRecordAnswer_FailureRollsBackEverything(t *testing.T) {
	store, u, now := newProgressFixture(t)
	store.failUpdate = errStorage
	sink := &sinkRecorder{}
	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, sink)

	_, err := svc.RecordAnswer(context.Background(), u.ID, 42, true)
	require.ErrorIs(t, err, errStorage)

	// Neither the progress row nor the user totals survive the rollback,
	// and the session never hears about the answer.
	assert.Nil(t, store.progress[progressKey{u.ID, 42}])
	assert.Equal(t, 0, store.users[u.ID].TotalCorrectAnswers)
	assert.Empty(t, sink.answers)
}

func TestRecordAnswer_UnknownUser(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := NewProgressService(store, zap.NewNop(), fixedClock(now), LearnedAndMastered, nil)

	_, err := svc.RecordAnswer(context.Background(), 999, 42, true)
	require.Error(t, err)
}

func TestLearnedPolicyStatuses(t *testing.T) {
	assert.Equal(t,
		[]entities.Status{entities.StatusLearned, entities.StatusMastered},
		LearnedAndMastered.Statuses(),
	)
	assert.Equal(t,
		[]entities.Status{entities.StatusLearned},
		LearnedOnly.Statuses(),
	)
	// Unknown values fall back to the default.
	assert.Equal(t,
		[]entities.Status{entities.StatusLearned, entities.StatusMastered},
		LearnedPolicy("bogus").Statuses(),
	)
}
