package state

import "sync"

// State holds the process-wide moderation toggles and the active
// classifier model. It is initialized from config defaults and mutated
// only through these accessors; a restart resets it. The accessors are the
// single synchronization seam: a toggle flipped mid-message applies to the
// next evaluation step that reads it, which is accepted behavior.
type State struct {
	mu          sync.RWMutex
	profanity   bool
	advertising bool
	semantic    bool
	model       string
}

// New creates a State with the given defaults.
func New(profanity, advertising, semantic bool, model string) *State {
	return &State{
		profanity:   profanity,
		advertising: advertising,
		semantic:    semantic,
		model:       model,
	}
}

// ProfanityEnabled reports whether the profanity filter is active.
func (s *State) ProfanityEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profanity
}

// AdvertisingEnabled reports whether the advertising filter is active.
func (s *State) AdvertisingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.advertising
}

// SemanticEnabled reports whether semantic classification is active.
func (s *State) SemanticEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.semantic
}

// Model returns the active classifier model name.
func (s *State) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// ToggleProfanity flips the profanity filter and returns the new value.
func (s *State) ToggleProfanity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profanity = !s.profanity
	return s.profanity
}

// ToggleAdvertising flips the advertising filter and returns the new value.
func (s *State) ToggleAdvertising() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advertising = !s.advertising
	return s.advertising
}

// ToggleSemantic flips semantic classification and returns the new value.
func (s *State) ToggleSemantic() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.semantic = !s.semantic
	return s.semantic
}

// SetProfanity sets the profanity filter explicitly.
func (s *State) SetProfanity(on bool) {
	s.mu.Lock()
	s.profanity = on
	s.mu.Unlock()
}

// SetAdvertising sets the advertising filter explicitly.
func (s *State) SetAdvertising(on bool) {
	s.mu.Lock()
	s.advertising = on
	s.mu.Unlock()
}

// SetSemantic sets semantic classification explicitly.
func (s *State) SetSemantic(on bool) {
	s.mu.Lock()
	s.semantic = on
	s.mu.Unlock()
}

// SetModel sets the active classifier model. Takes effect on the next
// classifier call.
func (s *State) SetModel(model string) {
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
}
