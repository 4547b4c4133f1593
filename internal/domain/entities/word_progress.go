package entities

import "time"

// Status is the mastery state of a (user, word) pair. Statuses only move
// forward: new -> learning -> learned -> mastered.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusLearned  Status = "learned"
	StatusMastered Status = "mastered"
)

// AllStatuses lists every status in progression order.
var AllStatuses = []Status{StatusNew, StatusLearning, StatusLearned, StatusMastered}

// Promotion thresholds over the lifetime correct count. A transition fires
// only from its direct predecessor, one step per answer.
const (
	learningThreshold = 3
	learnedThreshold  = 7
	masteredThreshold = 15
	masteredAccuracy  = 90.0
)

// Review scheduling bounds.
const (
	minEase         = 1.3
	maxEase         = 2.5
	startEase       = 2.5
	easeReward      = 0.05
	easePenalty     = 0.2
	maxIntervalDays = 365
)

// WordProgress tracks one user's mastery of one word.
type WordProgress struct {
	UserID int64
	WordID int64

	Status       Status
	CorrectCount int
	WrongCount   int

	// Review scheduling state. Repetitions counts consecutive correct
	// answers since the last miss.
	Repetitions  int
	Ease         float64
	IntervalDays int
	NextReviewAt *time.Time

	FirstSeenAt    time.Time
	LastReviewedAt *time.Time
}

// NewWordProgress creates progress for a word the user meets for the first
// time.
func NewWordProgress(userID, wordID int64, now time.Time) *WordProgress {
	return &WordProgress{
		UserID:      userID,
		WordID:      wordID,
		Status:      StatusNew,
		Ease:        startEase,
		FirstSeenAt: now,
	}
}

// Accuracy returns the per-word answer accuracy in percent, zero before the
// first answer.
func (p *WordProgress) Accuracy() float64 {
	total := p.CorrectCount + p.WrongCount
	if total == 0 {
		return 0
	}
	return float64(p.CorrectCount) / float64(total) * 100
}

// Apply records one answer: counters, at most one status promotion, and the
// next review schedule. Status never moves backwards, wrong answers only
// stall progress.
func (p *WordProgress) Apply(isCorrect bool, now time.Time) {
	if isCorrect {
		p.CorrectCount++
	} else {
		p.WrongCount++
	}

	switch {
	case p.Status == StatusNew && p.CorrectCount >= learningThreshold:
		p.Status = StatusLearning
	case p.Status == StatusLearning && p.CorrectCount >= learnedThreshold:
		p.Status = StatusLearned
	case p.Status == StatusLearned && p.CorrectCount >= masteredThreshold && p.Accuracy() > masteredAccuracy:
		p.Status = StatusMastered
	}

	p.updateSchedule(isCorrect, now)
	p.LastReviewedAt = &now
}

func (p *WordProgress) updateSchedule(isCorrect bool, now time.Time) {
	if !isCorrect {
		p.Repetitions = 0
		p.Ease -= easePenalty
		if p.Ease < minEase {
			p.Ease = minEase
		}
		p.IntervalDays = 0
		next := now.Add(10 * time.Minute)
		p.NextReviewAt = &next
		return
	}

	p.Repetitions++
	p.Ease += easeReward
	if p.Ease > maxEase {
		p.Ease = maxEase
	}
	p.IntervalDays = nextIntervalDays(p.Ease, p.Repetitions)
	next := now.Add(time.Duration(p.IntervalDays) * 24 * time.Hour)
	p.NextReviewAt = &next
}

// nextIntervalDays grows the review interval with the correct-answer streak,
// scaled by ease and capped at a year so long runs cannot push the schedule
// out of range.
func nextIntervalDays(ease float64, streak int) int {
	switch streak {
	case 1:
		return 1
	case 2:
		return 3
	default:
		days := 3.0
		for i := 2; i < streak; i++ {
			days *= ease
			if days >= maxIntervalDays {
				return maxIntervalDays
			}
		}
		return int(days)
	}
}
