package word_filter

import "strings"

// Flags reports which word lists matched a message.
type Flags struct {
	Profanity   bool
	Advertising bool
	Custom      bool
}

// Classify case-folds the text and checks it against every category's word
// set. Matching is plain substring search, not token-boundary-aware: a
// short listed word matches inside a longer word. Custom words are checked
// regardless of any filter toggles; toggles are applied by the caller.
func (s *Store) Classify(text string) Flags {
	if text == "" {
		return Flags{}
	}
	normalized := strings.ToLower(text)

	return Flags{
		Profanity:   s.matches(CategoryProfanity, normalized),
		Advertising: s.matches(CategoryAdvertising, normalized),
		Custom:      s.matches(CategoryCustom, normalized),
	}
}
