package service

import (
	"context"
	"errors"
	"time"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
	"github.com/mvoronin/parola-bot/internal/infra/postgres/repository"
)

// fakeStore is an in-memory Transactor and UnitOfWork. WithinTx snapshots
// the state and restores it when fn fails, mirroring a rollback.
type fakeStore struct {
	users    map[int64]*entities.User // by internal id
	progress map[progressKey]*entities.WordProgress
	sessions []*entities.TrainingSession

	nextUserID    int64
	nextSessionID int64

	failUpdate   error // injected into Users().Update
	failTraining error // injected into Trainings().Create
}

type progressKey struct {
	userID int64
	wordID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*entities.User),
		progress: make(map[progressKey]*entities.WordProgress),
	}
}

func (f *fakeStore) addUser(u *entities.User) *entities.User {
	f.nextUserID++
	u.ID = f.nextUserID
	cp := *u
	f.users[u.ID] = &cp
	return u
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error {
	users := make(map[int64]*entities.User, len(f.users))
	for id, u := range f.users {
		cp := *u
		users[id] = &cp
	}
	progress := make(map[progressKey]*entities.WordProgress, len(f.progress))
	for k, p := range f.progress {
		cp := *p
		progress[k] = &cp
	}
	sessions := append([]*entities.TrainingSession(nil), f.sessions...)

	if err := fn(ctx, f); err != nil {
		f.users = users
		f.progress = progress
		f.sessions = sessions
		return err
	}
	return nil
}

func (f *fakeStore) Users() UserRepository         { return &fakeUserRepo{f} }
func (f *fakeStore) Progress() ProgressRepository  { return &fakeProgressRepo{f} }
func (f *fakeStore) Trainings() TrainingRepository { return &fakeTrainingRepo{f} }

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*entities.User, error) {
	for _, u := range r.s.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetForUpdate(_ context.Context, id int64) (*entities.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) (int64, error) {
	r.s.nextUserID++
	cp := *u
	cp.ID = r.s.nextUserID
	r.s.users[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entities.User) error {
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ListStreakExpiring(_ context.Context, from, to time.Time) ([]*entities.User, error) {
	var out []*entities.User
	for _, u := range r.s.users {
		if u.LastActivityAt == nil {
			continue
		}
		at := *u.LastActivityAt
		if !at.Before(from) && at.Before(to) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProgressRepo struct{ s *fakeStore }

func (r *fakeProgressRepo) GetForUpdate(_ context.Context, userID, wordID int64) (*entities.WordProgress, error) {
	p, ok := r.s.progress[progressKey{userID, wordID}]
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) Upsert(_ context.Context, p *entities.WordProgress) error {
	cp := *p
	r.s.progress[progressKey{p.UserID, p.WordID}] = &cp
	return nil
}

func (r *fakeProgressRepo) CountByStatus(_ context.Context, userID int64) (map[entities.Status]int, error) {
	counts := make(map[entities.Status]int)
	for k, p := range r.s.progress {
		if k.userID == userID {
			counts[p.Status]++
		}
	}
	return counts, nil
}

func (r *fakeProgressRepo) CountInStatuses(_ context.Context, userID int64, statuses []entities.Status) (int, error) {
	n := 0
	for k, p := range r.s.progress {
		if k.userID != userID {
			continue
		}
		for _, st := range statuses {
			if p.Status == st {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeProgressRepo) ListDueWordIDs(_ context.Context, userID int64, now time.Time, limit int) ([]int64, error) {
	var ids []int64
	for k, p := range r.s.progress {
		if k.userID != userID || p.NextReviewAt == nil {
			continue
		}
		if p.Status != entities.StatusLearning && p.Status != entities.StatusLearned {
			continue
		}
		if !p.NextReviewAt.After(now) {
			ids = append(ids, k.wordID)
		}
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

type fakeTrainingRepo struct{ s *fakeStore }

func (r *fakeTrainingRepo) Create(_ context.Context, t *entities.TrainingSession) (int64, error) {
	if r.s.failTraining != nil {
		return 0, r.s.failTraining
	}
	r.s.nextSessionID++
	cp := *t
	cp.ID = r.s.nextSessionID
	r.s.sessions = append(r.s.sessions, &cp)
	return cp.ID, nil
}

// fakeCatalog serves a static word list for quiz tests.
type fakeCatalog struct {
	themes []*entities.Theme
	words  []*entities.Vocabulary
	idioms []*entities.Idiom
}

func (c *fakeCatalog) ListThemes(_ context.Context) ([]*entities.Theme, error) {
	return c.themes, nil
}

func (c *fakeCatalog) GetTheme(_ context.Context, id int64) (*entities.Theme, error) {
	for _, t := range c.themes {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrThemeNotFound
}

func (c *fakeCatalog) ListWordsByTheme(_ context.Context, themeID int64) ([]*entities.Vocabulary, error) {
	var out []*entities.Vocabulary
	for _, w := range c.words {
		if w.ThemeID == themeID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetRandomIdiom(_ context.Context) (*entities.Idiom, error) {
	if len(c.idioms) == 0 {
		return nil, repository.ErrIdiomNotFound
	}
	return c.idioms[0], nil
}

// fixedClock pins the service clock for deterministic assertions.
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

var errStorage = errors.New("storage failure")
