package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

var ErrNoQuestionsAvailable = errors.New("no questions available")

const distractorCount = 3

// QuizService builds multiple-choice questions from the catalog and holds
// each user's outstanding question until it is answered. Correctness lives
// only server-side: the keyboard carries the chosen option, never the
// answer. Words due for review are preferred as targets.
type QuizService struct {
	catalog  CatalogRepository
	progress ProgressRepository
	now      Clock

	mu      sync.Mutex
	pending map[int64]*entities.Question
}

func NewQuizService(catalog CatalogRepository, progress ProgressRepository, now Clock) *QuizService {
	return &QuizService{
		catalog:  catalog,
		progress: progress,
		now:      now,
		pending:  make(map[int64]*entities.Question),
	}
}

func (s *QuizService) Themes(ctx context.Context) ([]*entities.Theme, error) {
	return s.catalog.ListThemes(ctx)
}

func (s *QuizService) GetTheme(ctx context.Context, id int64) (*entities.Theme, error) {
	return s.catalog.GetTheme(ctx, id)
}

func (s *QuizService) RandomIdiom(ctx context.Context) (*entities.Idiom, error) {
	return s.catalog.GetRandomIdiom(ctx)
}

// NextQuestion picks a target word from the theme and wraps it into a
// shuffled multiple-choice question with up to three distractors.
func (s *QuizService) NextQuestion(ctx context.Context, userID, themeID int64) (*entities.Question, error) {
	words, err := s.catalog.ListWordsByTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	target := s.pickTarget(ctx, userID, words)

	distractors := pickDistractors(words, target.ID, distractorCount)
	options, correctIndex := buildOptionsWithCorrect(target.RusWord, distractors)

	q := &entities.Question{
		WordID:        target.ID,
		ThemeID:       themeID,
		Prompt:        target.ItalianWord,
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: target.RusWord,
	}

	s.mu.Lock()
	s.pending[userID] = q
	s.mu.Unlock()

	return q, nil
}

// TakeQuestion pops the user's outstanding question so it can be graded.
// The word id ties the pressed button to the question it came from: a
// button from an already-answered or replaced question finds no match and
// stays inert, so re-pressing a stale keyboard cannot re-record an answer.
func (s *QuizService) TakeQuestion(userID, wordID int64) (*entities.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.pending[userID]
	if !ok || q.WordID != wordID {
		return nil, false
	}
	delete(s.pending, userID)
	return q, true
}

// pickTarget prefers a word of this theme that is due for review, falling
// back to a random one.
func (s *QuizService) pickTarget(ctx context.Context, userID int64, words []*entities.Vocabulary) *entities.Vocabulary {
	due, err := s.progress.ListDueWordIDs(ctx, userID, s.now(), len(words))
	if err == nil && len(due) > 0 {
		dueSet := make(map[int64]struct{}, len(due))
		for _, id := range due {
			dueSet[id] = struct{}{}
		}
		for _, w := range words {
			if _, ok := dueSet[w.ID]; ok {
				return w
			}
		}
	}

	return words[rand.Intn(len(words))]
}

func pickDistractors(words []*entities.Vocabulary, targetID int64, count int) []string {
	candidates := make([]*entities.Vocabulary, 0, len(words))
	for _, w := range words {
		if w.ID != targetID {
			candidates = append(candidates, w)
		}
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	out := make([]string, 0, len(candidates))
	for _, w := range candidates {
		out = append(out, w.RusWord)
	}
	return out
}

func buildOptionsWithCorrect(correct string, distractors []string) ([]string, int) {
	options := make([]string, 0, 1+len(distractors))
	options = append(options, correct)
	options = append(options, distractors...)

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}

	return options, correctIndex
}
