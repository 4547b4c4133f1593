package entities

// Theme groups vocabulary entries.
type Theme struct {
	ID   int64
	Name string
}

// Vocabulary is one Italian word with its Russian translation, bound to a
// theme. Read-only for the bot: content is owned by the import tooling.
type Vocabulary struct {
	ID          int64
	ItalianWord string
	RusWord     string
	ThemeID     int64
}

// Idiom is an Italian idiom with its Russian translation.
type Idiom struct {
	ID           int64
	ItalianIdiom string
	RusIdiom     string
}
