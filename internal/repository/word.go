package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// WordRepository is the persisted word store behind the in-memory filter
// sets. Words are plain lowercased strings; no ordering is guaranteed.
type WordRepository interface {
	List(category string) ([]string, error)
	Add(category, word string) error
	Remove(category, word string) error
}

type wordRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWordRepository creates a WordRepository over Postgres.
func NewWordRepository(db *sqlx.DB, logger *zap.Logger) WordRepository {
	return &wordRepository{db: db, logger: logger}
}

func (r *wordRepository) List(category string) ([]string, error) {
	var words []string
	query := `SELECT word FROM words WHERE category = $1`
	err := r.db.Select(&words, query, category)
	if err != nil {
		return nil, err
	}
	return words, nil
}

func (r *wordRepository) Add(category, word string) error {
	query := `INSERT INTO words (category, word) VALUES ($1, $2) ON CONFLICT (category, word) DO NOTHING`
	_, err := r.db.Exec(query, category, strings.ToLower(word))
	return err
}

func (r *wordRepository) Remove(category, word string) error {
	query := `DELETE FROM words WHERE category = $1 AND word = $2`
	_, err := r.db.Exec(query, category, strings.ToLower(word))
	return err
}
