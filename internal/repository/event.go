package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// EventRepository is the append-only audit log of classification outcomes.
// Rows are never updated or deleted; all statistics are derived by
// counting.
type EventRepository interface {
	Append(category string, at time.Time) error
	CountSince(t time.Time) (int64, error)
	CountTotal() (int64, error)
	CountViolations() (int64, error)
}

type eventRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewEventRepository creates an EventRepository over Postgres.
func NewEventRepository(db *sqlx.DB, logger *zap.Logger) EventRepository {
	return &eventRepository{db: db, logger: logger}
}

func (r *eventRepository) Append(category string, at time.Time) error {
	query := `INSERT INTO statistics (type, timestamp) VALUES ($1, $2)`
	_, err := r.db.Exec(query, category, at.Unix())
	return err
}

func (r *eventRepository) CountSince(t time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM statistics WHERE timestamp > $1`
	err := r.db.Get(&count, query, t.Unix())
	return count, err
}

func (r *eventRepository) CountTotal() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM statistics`
	err := r.db.Get(&count, query)
	return count, err
}

func (r *eventRepository) CountViolations() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM statistics WHERE type IN ('violation_profanity', 'violation_ad', 'violation_custom') OR type LIKE 'neural_%'`
	err := r.db.Get(&count, query)
	return count, err
}
