package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chatguard/internal/classifier_client"
	"chatguard/internal/state"
	"chatguard/internal/word_filter"
)

// fakeWordRepo mimics the Postgres word store, including the idempotent
// insert behavior.
type fakeWordRepo struct {
	words map[string]map[string]struct{}
}

func newFakeWordRepo() *fakeWordRepo {
	return &fakeWordRepo{words: make(map[string]map[string]struct{})}
}

func (r *fakeWordRepo) List(category string) ([]string, error) {
	out := make([]string, 0, len(r.words[category]))
	for w := range r.words[category] {
		out = append(out, w)
	}
	return out, nil
}

func (r *fakeWordRepo) Add(category, word string) error {
	if r.words[category] == nil {
		r.words[category] = make(map[string]struct{})
	}
	r.words[category][word] = struct{}{}
	return nil
}

func (r *fakeWordRepo) Remove(category, word string) error {
	delete(r.words[category], word)
	return nil
}

type fakeEventRepo struct {
	since, total, violations int64
}

func (r *fakeEventRepo) Append(string, time.Time) error      { return nil }
func (r *fakeEventRepo) CountSince(time.Time) (int64, error) { return r.since, nil }
func (r *fakeEventRepo) CountTotal() (int64, error)          { return r.total, nil }
func (r *fakeEventRepo) CountViolations() (int64, error)     { return r.violations, nil }

func newTestControl() (*ControlService, *word_filter.Store, *fakeWordRepo) {
	repo := newFakeWordRepo()
	store := word_filter.NewStore()
	st := state.New(true, true, false, classifier_client.AvailableModels[0])
	topics := classifier_client.NewRegistry(classifier_client.DefaultTopics())
	svc := NewControlService(repo, &fakeEventRepo{}, store, st, topics, zap.NewNop())
	return svc, store, repo
}

func TestAddWord_Idempotent(t *testing.T) {
	svc, store, _ := newTestControl()

	require.NoError(t, svc.AddWord(word_filter.CategoryCustom, "Spam"))
	require.NoError(t, svc.AddWord(word_filter.CategoryCustom, "spam"))

	assert.Equal(t, 1, store.Size(word_filter.CategoryCustom))
	assert.Equal(t, []string{"spam"}, svc.Words(word_filter.CategoryCustom))
}

func TestAddWord_Empty(t *testing.T) {
	svc, _, _ := newTestControl()

	assert.ErrorIs(t, svc.AddWord(word_filter.CategoryCustom, "   "), ErrEmptyWord)
}

func TestAddWord_ReadAfterWrite(t *testing.T) {
	svc, store, _ := newTestControl()

	require.NoError(t, svc.AddWord(word_filter.CategoryProfanity, "дурак"))

	// The in-memory set is reloaded before AddWord returns.
	assert.True(t, store.Classify("ну ты дурак").Profanity)
}

func TestRemoveWord(t *testing.T) {
	svc, store, _ := newTestControl()

	require.NoError(t, svc.AddWord(word_filter.CategoryAdvertising, "скидка"))
	require.NoError(t, svc.RemoveWord(word_filter.CategoryAdvertising, "скидка"))

	assert.Equal(t, 0, store.Size(word_filter.CategoryAdvertising))
}

func TestMutationReloadsOnlyItsCategory(t *testing.T) {
	svc, store, repo := newTestControl()

	require.NoError(t, svc.AddWord(word_filter.CategoryCustom, "казино"))

	// A change sneaked into another category's persisted list is not
	// picked up by an unrelated mutation.
	require.NoError(t, repo.Add(string(word_filter.CategoryProfanity), "дурак"))
	require.NoError(t, svc.AddWord(word_filter.CategoryCustom, "ставки"))

	assert.Equal(t, 0, store.Size(word_filter.CategoryProfanity))
	assert.Equal(t, 2, store.Size(word_filter.CategoryCustom))
}

func TestSeed_PopulatesEmptyCategories(t *testing.T) {
	svc, store, _ := newTestControl()

	require.NoError(t, svc.Seed([]string{"Дурак"}, []string{"скидка", "акция"}))

	assert.Equal(t, []string{"дурак"}, store.Words(word_filter.CategoryProfanity))
	assert.Equal(t, 2, store.Size(word_filter.CategoryAdvertising))
}

func TestSeed_DoesNotOverwriteExistingWords(t *testing.T) {
	svc, store, repo := newTestControl()
	require.NoError(t, repo.Add(string(word_filter.CategoryProfanity), "существующее"))

	require.NoError(t, svc.Seed([]string{"новое"}, nil))

	assert.Equal(t, []string{"существующее"}, store.Words(word_filter.CategoryProfanity))
}

func TestSetModel(t *testing.T) {
	svc, _, _ := newTestControl()

	require.NoError(t, svc.SetModel(classifier_client.AvailableModels[1]))
	assert.Equal(t, classifier_client.AvailableModels[1], svc.Model())

	assert.ErrorIs(t, svc.SetModel("no-such-model"), ErrUnknownModel)
	assert.Equal(t, classifier_client.AvailableModels[1], svc.Model())
}

func TestToggles(t *testing.T) {
	svc, _, _ := newTestControl()

	assert.False(t, svc.ToggleProfanity())
	assert.True(t, svc.ToggleProfanity())

	assert.True(t, svc.ToggleSemantic())
	assert.True(t, svc.SemanticEnabled())
}

func TestToggleTopic(t *testing.T) {
	svc, _, _ := newTestControl()

	assert.True(t, svc.ToggleTopic("cars", false))
	assert.False(t, svc.ToggleTopic("no_such_topic", true))

	for _, topic := range svc.Topics() {
		if topic.Name == "cars" {
			assert.False(t, topic.Enabled)
		}
	}
}

func TestStats(t *testing.T) {
	repo := newFakeWordRepo()
	store := word_filter.NewStore()
	st := state.New(true, true, false, "m")
	topics := classifier_client.NewRegistry(classifier_client.DefaultTopics())
	svc := NewControlService(repo, &fakeEventRepo{since: 5, total: 100, violations: 7}, store, st, topics, zap.NewNop())

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.LastHour)
	assert.Equal(t, int64(5), stats.LastWeek)
	assert.Equal(t, int64(100), stats.Total)
	assert.Equal(t, int64(7), stats.Violations)
}
