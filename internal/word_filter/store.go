package word_filter

import (
	"sort"
	"strings"
	"sync"
)

// Category identifies one of the managed word lists.
type Category string

const (
	CategoryProfanity   Category = "profanity"
	CategoryAdvertising Category = "advertising"
	CategoryCustom      Category = "custom"
)

// Categories lists every managed category.
var Categories = []Category{CategoryProfanity, CategoryAdvertising, CategoryCustom}

// ParseCategory maps a user-supplied name to a known Category.
func ParseCategory(name string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(name))) {
	case CategoryProfanity:
		return CategoryProfanity, true
	case CategoryAdvertising:
		return CategoryAdvertising, true
	case CategoryCustom:
		return CategoryCustom, true
	}
	return "", false
}

// Store keeps the in-memory word sets the filter matches against.
// Each category is replaced wholesale after a persisted mutation, so the
// in-memory view never diverges from the word store for longer than one
// operation.
type Store struct {
	mu   sync.RWMutex
	sets map[Category]map[string]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	sets := make(map[Category]map[string]struct{}, len(Categories))
	for _, cat := range Categories {
		sets[cat] = make(map[string]struct{})
	}
	return &Store{sets: sets}
}

// Replace swaps the whole word set for a category. Words are lowercased
// and deduplicated; order is irrelevant.
func (s *Store) Replace(cat Category, words []string) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}

	s.mu.Lock()
	s.sets[cat] = set
	s.mu.Unlock()
}

// Words returns a sorted snapshot of a category's word set.
func (s *Store) Words(cat Category) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]string, 0, len(s.sets[cat]))
	for w := range s.sets[cat] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Size returns the number of words in a category's set.
func (s *Store) Size(cat Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[cat])
}

// matches reports whether any word of the category occurs as a substring
// of the already-normalized text.
func (s *Store) matches(cat Category, text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for w := range s.sets[cat] {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
