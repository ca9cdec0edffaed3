package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatguard/internal/classifier_client"
	"chatguard/internal/repository"
	"chatguard/internal/state"
	"chatguard/internal/word_filter"
)

var (
	ErrEmptyWord    = errors.New("word must not be empty")
	ErrUnknownModel = errors.New("unknown model")
)

// Stats summarizes the audit log for the admin surfaces.
type Stats struct {
	LastHour   int64 `json:"last_hour"`
	LastWeek   int64 `json:"last_week"`
	Total      int64 `json:"total"`
	Violations int64 `json:"violations"`
}

// ControlService is the single seam the admin surfaces (Telegram commands
// and the HTTP API) drive the moderation pipeline through. It performs no
// authorization; callers must authorize before reaching it.
type ControlService struct {
	words  repository.WordRepository
	events repository.EventRepository
	store  *word_filter.Store
	state  *state.State
	topics *classifier_client.Registry
	logger *zap.Logger
}

// NewControlService creates a ControlService.
func NewControlService(
	words repository.WordRepository,
	events repository.EventRepository,
	store *word_filter.Store,
	st *state.State,
	topics *classifier_client.Registry,
	logger *zap.Logger,
) *ControlService {
	return &ControlService{
		words:  words,
		events: events,
		store:  store,
		state:  st,
		topics: topics,
		logger: logger,
	}
}

// ToggleProfanity flips the profanity filter and returns the new value.
func (s *ControlService) ToggleProfanity() bool { return s.state.ToggleProfanity() }

// ToggleAdvertising flips the advertising filter and returns the new value.
func (s *ControlService) ToggleAdvertising() bool { return s.state.ToggleAdvertising() }

// ToggleSemantic flips semantic classification and returns the new value.
func (s *ControlService) ToggleSemantic() bool { return s.state.ToggleSemantic() }

// ProfanityEnabled reports the profanity filter state.
func (s *ControlService) ProfanityEnabled() bool { return s.state.ProfanityEnabled() }

// AdvertisingEnabled reports the advertising filter state.
func (s *ControlService) AdvertisingEnabled() bool { return s.state.AdvertisingEnabled() }

// SemanticEnabled reports the semantic classification state.
func (s *ControlService) SemanticEnabled() bool { return s.state.SemanticEnabled() }

// Model returns the active classifier model.
func (s *ControlService) Model() string { return s.state.Model() }

// SetModel switches the active classifier model. The change takes effect
// on the next classifier call.
func (s *ControlService) SetModel(name string) error {
	for _, m := range classifier_client.AvailableModels {
		if m == name {
			s.state.SetModel(name)
			s.logger.Info("Classifier model switched", zap.String("model", name))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownModel, name)
}

// AvailableModels lists the models SetModel accepts.
func (s *ControlService) AvailableModels() []string {
	return classifier_client.AvailableModels
}

// ToggleTopic enables or disables a classifier topic. Returns false for an
// unknown topic name.
func (s *ControlService) ToggleTopic(name string, enabled bool) bool {
	ok := s.topics.Toggle(name, enabled)
	if ok {
		s.logger.Info("Topic toggled", zap.String("topic", name), zap.Bool("enabled", enabled))
	}
	return ok
}

// Topics returns a snapshot of every classifier topic.
func (s *ControlService) Topics() []classifier_client.Topic {
	return s.topics.All()
}

// AddWord persists a word in a category and reloads that category's
// in-memory set, so the filter and the store agree once the call returns.
// Adding an already-present word is a no-op.
func (s *ControlService) AddWord(cat word_filter.Category, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ErrEmptyWord
	}

	if err := s.words.Add(string(cat), word); err != nil {
		return fmt.Errorf("failed to add word: %w", err)
	}
	return s.reload(cat)
}

// RemoveWord removes a word from a category and reloads that category's
// in-memory set.
func (s *ControlService) RemoveWord(cat word_filter.Category, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ErrEmptyWord
	}

	if err := s.words.Remove(string(cat), word); err != nil {
		return fmt.Errorf("failed to remove word: %w", err)
	}
	return s.reload(cat)
}

// Words returns the current in-memory word set of a category.
func (s *ControlService) Words(cat word_filter.Category) []string {
	return s.store.Words(cat)
}

// LoadAll reloads every category from the word store into memory.
func (s *ControlService) LoadAll() error {
	for _, cat := range word_filter.Categories {
		if err := s.reload(cat); err != nil {
			return err
		}
	}
	return nil
}

func (s *ControlService) reload(cat word_filter.Category) error {
	words, err := s.words.List(string(cat))
	if err != nil {
		return fmt.Errorf("failed to load %s words: %w", cat, err)
	}
	s.store.Replace(cat, words)
	return nil
}

// Seed inserts the configured default words into empty categories and
// loads every category into memory. Called once at startup.
func (s *ControlService) Seed(profanity, advertising []string) error {
	if err := s.seedCategory(word_filter.CategoryProfanity, profanity); err != nil {
		return err
	}
	if err := s.seedCategory(word_filter.CategoryAdvertising, advertising); err != nil {
		return err
	}
	return s.LoadAll()
}

func (s *ControlService) seedCategory(cat word_filter.Category, seed []string) error {
	if len(seed) == 0 {
		return nil
	}
	existing, err := s.words.List(string(cat))
	if err != nil {
		return fmt.Errorf("failed to check %s words: %w", cat, err)
	}
	if len(existing) > 0 {
		return nil
	}

	s.logger.Info("Seeding word list", zap.String("category", string(cat)), zap.Int("count", len(seed)))
	for _, w := range seed {
		if err := s.words.Add(string(cat), strings.ToLower(strings.TrimSpace(w))); err != nil {
			return fmt.Errorf("failed to seed word: %w", err)
		}
	}
	return nil
}

// Stats derives usage counters from the audit log.
func (s *ControlService) Stats() (*Stats, error) {
	now := time.Now()

	lastHour, err := s.events.CountSince(now.Add(-time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent events: %w", err)
	}
	lastWeek, err := s.events.CountSince(now.Add(-7 * 24 * time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly events: %w", err)
	}
	total, err := s.events.CountTotal()
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	violations, err := s.events.CountViolations()
	if err != nil {
		return nil, fmt.Errorf("failed to count violations: %w", err)
	}

	return &Stats{
		LastHour:   lastHour,
		LastWeek:   lastWeek,
		Total:      total,
		Violations: violations,
	}, nil
}
