package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mvoronin/parola-bot/internal/domain/entities"
)

var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrIdiomNotFound = errors.New("idiom not found")
)

// CatalogRepository reads the static vocabulary content: themes, words and
// idioms. The bot never mutates the catalog.
type CatalogRepository struct {
	db DBTX
}

func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListThemes(ctx context.Context) ([]*entities.Theme, error) {
	query := `SELECT id, name FROM themes ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var themes []*entities.Theme
	for rows.Next() {
		var t entities.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, &t)
	}

	return themes, rows.Err()
}

func (r *CatalogRepository) GetTheme(ctx context.Context, id int64) (*entities.Theme, error) {
	query := `SELECT id, name FROM themes WHERE id = $1`

	var t entities.Theme
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrThemeNotFound
		}
		return nil, fmt.Errorf("get theme: %w", err)
	}

	return &t, nil
}

func (r *CatalogRepository) ListWordsByTheme(ctx context.Context, themeID int64) ([]*entities.Vocabulary, error) {
	query := `
		SELECT id, italian_word, rus_word, theme_id
		FROM vocabulary
		WHERE theme_id = $1
	`

	rows, err := r.db.Query(ctx, query, themeID)
	if err != nil {
		return nil, fmt.Errorf("list words by theme: %w", err)
	}
	defer rows.Close()

	var words []*entities.Vocabulary
	for rows.Next() {
		var w entities.Vocabulary
		if err := rows.Scan(&w.ID, &w.ItalianWord, &w.RusWord, &w.ThemeID); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, &w)
	}

	return words, rows.Err()
}

func (r *CatalogRepository) GetRandomIdiom(ctx context.Context) (*entities.Idiom, error) {
	query := `SELECT id, italian_idiom, rus_idiom FROM idiom ORDER BY RANDOM() LIMIT 1`

	var i entities.Idiom
	err := r.db.QueryRow(ctx, query).Scan(&i.ID, &i.ItalianIdiom, &i.RusIdiom)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdiomNotFound
		}
		return nil, fmt.Errorf("get random idiom: %w", err)
	}

	return &i, nil
}
