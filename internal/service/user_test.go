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

func TestGetOrCreate_NewUser(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := NewUserService(store, zap.NewNop(), fixedClock(now))

	u, err := svc.GetOrCreate(context.Background(), 100, "mario", "Mario", "Rossi")
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, int64(100), u.TelegramID)
	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 1, u.Level)
	require.NotNil(t, u.LastActivityAt)
	assert.Equal(t, now, *u.LastActivityAt)

	stored := store.users[u.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "mario", stored.Username)
}

func TestGetOrCreate_ExistingUserTouchesStreak(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	u := entities.NewUser(100, "mario", "Mario", "Rossi", created)
	store.addUser(u)

	next := created.Add(25 * time.Hour)
	svc := NewUserService(store, zap.NewNop(), fixedClock(next))

	got, err := svc.GetOrCreate(context.Background(), 100, "mario", "Mario", "Rossi")
	require.NoError(t, err)

	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, 2, store.users[got.ID].CurrentStreak)
}

func TestGetOrCreate_SameDayNoDoubleCount(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	store.addUser(entities.NewUser(100, "mario", "Mario", "Rossi", created))

	svc := NewUserService(store, zap.NewNop(), fixedClock(created.Add(2*time.Hour)))

	for i := 0; i < 5; i++ {
		got, err := svc.GetOrCreate(context.Background(), 100, "mario", "Mario", "Rossi")
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentStreak)
	}
}

func TestGetOrCreate_GapResetsStreak(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	u := entities.NewUser(100, "mario", "Mario", "Rossi", created)
	u.CurrentStreak = 6
	u.LongestStreak = 6
	store.addUser(u)

	svc := NewUserService(store, zap.NewNop(), fixedClock(created.Add(72*time.Hour)))

	got, err := svc.GetOrCreate(context.Background(), 100, "mario", "Mario", "Rossi")
	require.NoError(t, err)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 6, got.LongestStreak)
}

func TestGetOrCreate_RefreshesDisplayFields(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	store.addUser(entities.NewUser(100, "old", "Old", "Name", created))

	svc := NewUserService(store, zap.NewNop(), fixedClock(created.Add(time.Hour)))

	got, err := svc.GetOrCreate(context.Background(), 100, "fresh", "Fresh", "Name")
	require.NoError(t, err)

	assert.Equal(t, "fresh", got.Username)
	assert.Equal(t, "fresh", store.users[got.ID].Username)
}

func TestGetOrCreate_RepairsDerivedFields(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	u := entities.NewUser(100, "mario", "Mario", "Rossi", created)
	u.ExperiencePoints = 250
	u.Level = 1 // stale
	store.addUser(u)

	svc := NewUserService(store, zap.NewNop(), fixedClock(created.Add(time.Hour)))

	got, err := svc.GetOrCreate(context.Background(), 100, "mario", "Mario", "Rossi")
	require.NoError(t, err)

	assert.Equal(t, 3, got.Level)
}

func TestGetOrCreate_UpdateFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	u := entities.NewUser(100, "mario", "Mario", "Rossi", created)
	store.addUser(u)
	store.failUpdate = errStorage

	svc := NewUserService(store, zap.NewNop(), fixedClock(created.Add(25*time.Hour)))

	_, err := svc.GetOrCreate(context.Background(), 100, "mario", "Mario", "Rossi")
	require.ErrorIs(t, err, errStorage)

	assert.Equal(t, 1, store.users[u.ID].CurrentStreak)
}
