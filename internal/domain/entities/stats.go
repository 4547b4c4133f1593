package entities

// StatsSnapshot is a read-only projection of a user's learning state for
// display. WordsByStatus always carries all four statuses, zero-filled.
type StatsSnapshot struct {
	TotalWordsLearned int
	Accuracy          float64 // percent, 0 when no answers yet
	CurrentStreak     int
	LongestStreak     int
	Level             int
	ExperiencePoints  int
	TotalTrainings    int
	TotalCorrect      int
	TotalWrong        int
	WordsByStatus     map[Status]int
}
