package entities

// Question is one multiple-choice quiz question built from the catalog.
type Question struct {
	WordID        int64
	ThemeID       int64
	Prompt        string   // the Italian word being asked
	Options       []string // shuffled Russian translations
	CorrectIndex  int
	CorrectAnswer string
}
