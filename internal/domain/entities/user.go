package entities

import "time"

// XP awarded per answer. Wrong answers still grant partial credit to
// reward the attempt.
const (
	xpCorrect   = 10
	xpWrong     = 2
	xpPerLevel  = 100
	startLevel  = 1
	startStreak = 1
)

// User represents a bot user with lifetime learning aggregates.
type User struct {
	ID         int64 // internal id
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string

	TotalCorrectAnswers int
	TotalWrongAnswers   int
	TotalWordsLearned   int // cached count, recomputed on every answer
	TotalTrainings      int

	CurrentStreak  int
	LongestStreak  int
	LastActivityAt *time.Time // nullable, UTC

	Level            int // floor(xp/100) + 1
	ExperiencePoints int

	CreatedAt time.Time
}

// NewUser creates a user for their first interaction. The first interaction
// itself counts as activity, so the streak starts at one.
func NewUser(telegramID int64, username, firstName, lastName string, now time.Time) *User {
	return &User{
		TelegramID:     telegramID,
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		CurrentStreak:  startStreak,
		LongestStreak:  startStreak,
		LastActivityAt: &now,
		Level:          startLevel,
		CreatedAt:      now,
	}
}

// TouchStreak updates the daily streak from the previous activity instant.
// The day boundary is the floor of the elapsed duration in whole days, not
// the wall-clock calendar date.
func (u *User) TouchStreak(now time.Time) {
	if u.LastActivityAt == nil {
		u.CurrentStreak = startStreak
		u.LastActivityAt = &now
		if u.LongestStreak < u.CurrentStreak {
			u.LongestStreak = u.CurrentStreak
		}
		return
	}

	daysSince := int(now.Sub(*u.LastActivityAt) / (24 * time.Hour))
	switch {
	case daysSince <= 0:
		// Same day, nothing changes.
	case daysSince == 1:
		u.CurrentStreak++
		u.LastActivityAt = &now
		if u.CurrentStreak > u.LongestStreak {
			u.LongestStreak = u.CurrentStreak
		}
	default:
		u.CurrentStreak = startStreak
		u.LastActivityAt = &now
	}
}

// ApplyAnswer records one answer into the lifetime counters and awards XP.
// Returns true when the user leveled up.
func (u *User) ApplyAnswer(isCorrect bool) bool {
	if isCorrect {
		u.TotalCorrectAnswers++
		u.ExperiencePoints += xpCorrect
	} else {
		u.TotalWrongAnswers++
		u.ExperiencePoints += xpWrong
	}

	newLevel := u.ExperiencePoints/xpPerLevel + 1
	if newLevel > u.Level {
		u.Level = newLevel
		return true
	}
	return false
}

// Accuracy returns the lifetime answer accuracy in percent, zero when the
// user has not answered anything yet.
func (u *User) Accuracy() float64 {
	total := u.TotalCorrectAnswers + u.TotalWrongAnswers
	if total == 0 {
		return 0
	}
	return float64(u.TotalCorrectAnswers) / float64(total) * 100
}

// NormalizeDerived repairs derived fields found inconsistent on load:
// level is recomputed from XP and the longest streak is raised to the
// current one. Returns true when anything was corrected.
func (u *User) NormalizeDerived() bool {
	fixed := false

	if lvl := u.ExperiencePoints/xpPerLevel + 1; u.Level != lvl {
		u.Level = lvl
		fixed = true
	}
	if u.LongestStreak < u.CurrentStreak {
		u.LongestStreak = u.CurrentStreak
		fixed = true
	}

	return fixed
}
